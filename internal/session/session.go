// Package session implements the client-side session: authentication state,
// the conversation log and the chat send protocol.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wellnest/companion/internal/domain"
	"github.com/wellnest/companion/internal/store"
)

// Errors returned when an operation is rejected before any request is made.
var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrBusy             = errors.New("another request is pending on this session")
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrInterrupted      = errors.New("session was logged out while the request was in flight")
)

type operation int

const (
	opNone operation = iota
	opAuth
	opChat
)

// View is a read-only snapshot of a session.
type View struct {
	Mode          domain.AuthMode `json:"mode" yaml:"mode"`
	AwaitingReply bool            `json:"awaiting_reply" yaml:"awaiting_reply"`
	Turns         []domain.Turn   `json:"turns" yaml:"turns"`
}

// Session owns the auth mode, the conversation log and the pending guard.
// The credential itself lives in the injected CredentialStore.
//
// At most one network-bound mutation (login, register, send) runs at a time.
// Logout is always allowed; it releases that claim and starts a new epoch so
// that responses to requests issued before it are discarded.
type Session struct {
	mu       sync.Mutex
	creds    store.CredentialStore
	log      *Log
	mode     domain.AuthMode
	inflight operation
	epoch    uint64

	subs    map[int]chan Event
	nextSub int

	logger *slog.Logger
}

// New creates an anonymous session over creds. Call Auth.Restore to pick up
// a persisted credential.
func New(creds store.CredentialStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		creds:  creds,
		log:    NewLog(),
		mode:   domain.ModeAnonymous,
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Mode returns the current auth mode.
func (s *Session) Mode() domain.AuthMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AwaitingReply reports whether a chat exchange is in flight.
func (s *Session) AwaitingReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight == opChat
}

// IsTyping is the UI name for AwaitingReply.
func (s *Session) IsTyping() bool {
	return s.AwaitingReply()
}

// Turns returns a snapshot of the conversation log.
func (s *Session) Turns() []domain.Turn {
	return s.log.Snapshot()
}

// LastTurns returns the most recent n turns.
func (s *Session) LastTurns(n int) []domain.Turn {
	return s.log.Last(n)
}

// View returns a consistent snapshot of mode, pending state and turns.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Mode:          s.mode,
		AwaitingReply: s.inflight == opChat,
		Turns:         s.log.Snapshot(),
	}
}

// Token returns the credential for an authenticated request. ok is false
// when the session is not authenticated or no credential is stored.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	if !s.Mode().IsAuthenticated() {
		return "", false, nil
	}
	token, ok, err := s.creds.Get(ctx)
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	return token, ok, nil
}

// Subscribe registers an observer. Events are dropped for a subscriber whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// emitLocked fans an event out to subscribers. s.mu must be held.
func (s *Session) emitLocked(typ EventType, turn *domain.Turn) {
	ev := Event{
		Type:          typ,
		Turn:          turn,
		Mode:          s.mode,
		AwaitingReply: s.inflight == opChat,
		At:            time.Now(),
	}
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("session subscriber is slow, dropping event", "subscriber", id, "event", typ)
		}
	}
}

// beginAuth claims the session for an auth request.
func (s *Session) beginAuth() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != opNone {
		return 0, ErrBusy
	}
	s.inflight = opAuth
	return s.epoch, nil
}

// beginChat claims the session for a chat exchange and appends the user turn.
func (s *Session) beginChat(text string) (uint64, domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != opNone {
		return 0, domain.Turn{}, ErrBusy
	}
	if !s.mode.IsAuthenticated() {
		return 0, domain.Turn{}, ErrNotAuthenticated
	}

	turn := s.log.Append(domain.Turn{Role: domain.RoleUser, Content: text})
	s.inflight = opChat
	s.emitLocked(EventTurnAppended, &turn)
	s.emitLocked(EventInputCleared, nil)
	s.emitLocked(EventPendingChanged, nil)
	return s.epoch, turn, nil
}

// end releases the claim op took in epoch. A claim already released by a
// logout, or taken since by another operation, is left alone.
func (s *Session) end(op operation, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.inflight != op {
		return
	}
	s.inflight = opNone
	if op == opChat {
		s.emitLocked(EventPendingChanged, nil)
	}
}

// appendTurns appends turns atomically if the session is still in epoch.
// It returns the stored copies, or nil when the turns were discarded.
func (s *Session) appendTurns(epoch uint64, turns ...domain.Turn) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Debug("discarding turns from a previous session epoch", "count", len(turns))
		return nil
	}
	stored := make([]domain.Turn, 0, len(turns))
	for _, t := range turns {
		st := s.log.Append(t)
		stored = append(stored, st)
		s.emitLocked(EventTurnAppended, &st)
	}
	return stored
}

// setMode transitions the auth mode if the session is still in epoch.
func (s *Session) setMode(epoch uint64, mode domain.AuthMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	if s.mode != mode {
		s.mode = mode
		s.emitLocked(EventModeChanged, nil)
	}
	return true
}

// commitLogin stores token and marks the session authenticated, unless a
// logout started a new epoch since the login was claimed.
func (s *Session) commitLogin(ctx context.Context, epoch uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrInterrupted
	}
	if err := s.creds.Set(ctx, token); err != nil {
		return err
	}
	if s.mode != domain.ModeAuthenticated {
		s.mode = domain.ModeAuthenticated
		s.emitLocked(EventModeChanged, nil)
	}
	return nil
}

// reset starts a new epoch: mode anonymous, log empty, no request pending,
// credential cleared. The in-memory state is reset even if clearing fails.
func (s *Session) reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.log.Clear()
	s.emitLocked(EventLogCleared, nil)
	if s.mode != domain.ModeAnonymous {
		s.mode = domain.ModeAnonymous
		s.emitLocked(EventModeChanged, nil)
	}
	pending := s.inflight == opChat
	s.inflight = opNone
	if pending {
		s.emitLocked(EventPendingChanged, nil)
	}
	return s.creds.Clear(ctx)
}

func (s *Session) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
