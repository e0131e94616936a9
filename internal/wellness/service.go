// Package wellness fetches the auxiliary artifacts of the companion: mood log
// acknowledgements, meditation guidance and the wellness plan.
package wellness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wellnest/companion/internal/backend"
	"golang.org/x/sync/errgroup"
)

// User-facing results. The fallbacks replace any failed fetch.
const (
	MoodLogged           = "Mood logged!"
	MoodFailed           = "Failed to log mood."
	MeditationFallback   = "Unable to fetch meditation guidance."
	WellnessPlanFallback = "Unable to fetch wellness plan."
)

var (
	// ErrMoodRequired is returned by LogMood for a blank mood.
	ErrMoodRequired = errors.New("mood is required")
	// ErrFeatureDisabled is returned by LogMood when mood tracking is off.
	ErrFeatureDisabled = errors.New("mood tracking is disabled")
)

// TokenSource yields the bearer credential of the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// API is the part of the backend the fetchers need.
type API interface {
	LogMood(ctx context.Context, token string, req backend.MoodRequest) error
	Meditation(ctx context.Context, token string) (string, error)
	WellnessPlan(ctx context.Context, token string) (string, error)
}

// Digest bundles meditation guidance and the wellness plan.
type Digest struct {
	Meditation string `json:"meditation" yaml:"meditation"`
	Plan       string `json:"plan" yaml:"plan"`
}

// Service runs the fetchers. It never touches the conversation log or the
// auth mode.
type Service struct {
	tokens      TokenSource
	api         API
	moodEnabled bool
	logger      *slog.Logger
}

// NewService creates a Service. moodEnabled gates LogMood.
func NewService(tokens TokenSource, api API, moodEnabled bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tokens:      tokens,
		api:         api,
		moodEnabled: moodEnabled,
		logger:      logger.With("component", "wellness"),
	}
}

// LogMood posts a mood entry. On success it returns MoodLogged and the caller
// should reset its form; on failure it returns MoodFailed with the cause.
func (s *Service) LogMood(ctx context.Context, mood, note string) (string, error) {
	if !s.moodEnabled {
		return "", ErrFeatureDisabled
	}
	if strings.TrimSpace(mood) == "" {
		return "", ErrMoodRequired
	}

	token, err := s.token(ctx)
	if err != nil {
		return MoodFailed, err
	}
	if err := s.api.LogMood(ctx, token, backend.MoodRequest{Mood: mood, Note: note}); err != nil {
		s.logger.Warn("mood log failed", "error", err)
		return MoodFailed, fmt.Errorf("log mood: %w", err)
	}
	return MoodLogged, nil
}

// Meditation returns guidance text or MeditationFallback.
func (s *Service) Meditation(ctx context.Context) string {
	token, err := s.token(ctx)
	if err != nil {
		return MeditationFallback
	}
	text, err := s.api.Meditation(ctx, token)
	if err != nil {
		s.logger.Warn("meditation fetch failed", "error", err)
		return MeditationFallback
	}
	return text
}

// WellnessPlan returns the plan text or WellnessPlanFallback.
func (s *Service) WellnessPlan(ctx context.Context) string {
	token, err := s.token(ctx)
	if err != nil {
		return WellnessPlanFallback
	}
	plan, err := s.api.WellnessPlan(ctx, token)
	if err != nil {
		s.logger.Warn("wellness plan fetch failed", "error", err)
		return WellnessPlanFallback
	}
	return plan
}

// Digest fetches meditation guidance and the plan concurrently. Each part
// falls back on its own.
func (s *Service) Digest(ctx context.Context) Digest {
	var d Digest
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Meditation = s.Meditation(gctx)
		return nil
	})
	g.Go(func() error {
		d.Plan = s.WellnessPlan(gctx)
		return nil
	})
	_ = g.Wait()
	return d
}

func (s *Service) token(ctx context.Context) (string, error) {
	token, ok, err := s.tokens.Token(ctx)
	if err != nil {
		s.logger.Warn("failed to read credential", "error", err)
		return "", err
	}
	if !ok || token == "" {
		return "", backend.ErrNoCredential
	}
	return token, nil
}
