package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wellnest/companion/internal/backend"
	"github.com/wellnest/companion/internal/domain"
)

// Turn contents produced by the dispatcher itself.
const (
	NoReplyContent         = "No reply from AI."
	ConnectionErrorContent = "Error connecting to server."
)

// ChatAPI is the part of the backend the dispatcher needs.
type ChatAPI interface {
	Chat(ctx context.Context, token string, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// DispatcherOptions gates optional chat features.
type DispatcherOptions struct {
	// LanguageSelection forwards the caller's language; when false the
	// default is always sent.
	LanguageSelection bool
	DefaultLanguage   string
	// EscalationResources appends the crisis resource turn on escalation.
	EscalationResources bool
}

// DefaultDispatcherOptions enables every feature with English as default.
func DefaultDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		LanguageSelection:   true,
		DefaultLanguage:     "en",
		EscalationResources: true,
	}
}

// Dispatcher sends user messages and appends the resulting turns.
type Dispatcher struct {
	s      *Session
	api    ChatAPI
	opts   DispatcherOptions
	logger *slog.Logger
}

// NewDispatcher creates a chat dispatcher for s.
func NewDispatcher(s *Session, api ChatAPI, opts DispatcherOptions) *Dispatcher {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Dispatcher{s: s, api: api, opts: opts, logger: s.logger.With("component", "dispatcher")}
}

// Send runs one chat exchange and returns every turn it appended, user turn
// first. It is rejected without touching the log when text is blank, another
// request is pending or the session is anonymous. Backend failures never
// surface as errors: they become a system turn.
func (d *Dispatcher) Send(ctx context.Context, text, language string) ([]domain.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	epoch, userTurn, err := d.s.beginChat(text)
	if err != nil {
		return nil, err
	}
	defer d.s.end(opChat, epoch)

	appended := []domain.Turn{userTurn}
	replies := d.exchange(ctx, text, d.language(language))
	appended = append(appended, d.s.appendTurns(epoch, replies...)...)
	return appended, nil
}

// exchange performs the request and interprets the response as turns.
func (d *Dispatcher) exchange(ctx context.Context, text, language string) []domain.Turn {
	token, ok, err := d.s.Token(ctx)
	if err != nil || !ok {
		d.logger.Warn("no credential for chat request", "error", err)
		return []domain.Turn{connectionErrorTurn()}
	}

	resp, err := d.api.Chat(ctx, token, backend.ChatRequest{Message: text, Language: language})
	if err != nil {
		d.logger.Warn("chat request failed", "error", err)
		return []domain.Turn{connectionErrorTurn()}
	}
	return d.interpret(resp)
}

func (d *Dispatcher) interpret(resp *backend.ChatResponse) []domain.Turn {
	if resp.Escalate {
		reply := ""
		if resp.Reply != nil {
			reply = *resp.Reply
		}
		turns := []domain.Turn{{Role: domain.RoleAssistant, Content: reply}}
		resources := resp.DomainResources()
		if d.opts.EscalationResources && len(resources) > 0 {
			turns = append(turns, domain.Turn{
				Role:      domain.RoleSystem,
				Content:   domain.ResourceTurnContent(resources),
				Resources: resources,
			})
		}
		d.logger.Info("conversation escalated", "resources", len(resources))
		return turns
	}

	reply := NoReplyContent
	if resp.Reply != nil && *resp.Reply != "" {
		reply = *resp.Reply
	}
	return []domain.Turn{{Role: domain.RoleAssistant, Content: reply}}
}

func (d *Dispatcher) language(requested string) string {
	requested = strings.TrimSpace(requested)
	if !d.opts.LanguageSelection || requested == "" {
		return d.opts.DefaultLanguage
	}
	return requested
}

func connectionErrorTurn() domain.Turn {
	return domain.Turn{Role: domain.RoleSystem, Content: ConnectionErrorContent}
}
