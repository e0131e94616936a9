// Package app wires the companion components from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/wellnest/companion/internal/backend"
	"github.com/wellnest/companion/internal/config"
	"github.com/wellnest/companion/internal/session"
	"github.com/wellnest/companion/internal/store"
	"github.com/wellnest/companion/internal/wellness"
)

// App holds one companion session and its collaborators.
type App struct {
	Config     *config.Config
	Store      store.CredentialStore
	Backend    *backend.Client
	Session    *session.Session
	Auth       *session.Auth
	Dispatcher *session.Dispatcher
	Wellness   *wellness.Service
}

// New builds the App and restores a persisted credential, if any.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	creds, err := NewCredentialStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := creds.Ping(ctx); err != nil {
		_ = creds.Close()
		return nil, fmt.Errorf("credential store health check: %w", err)
	}

	client, err := backend.NewClient(backend.ClientConfig{
		BaseURL:        cfg.BackendURL,
		RequestTimeout: cfg.RequestTimeout,
		ChatTimeout:    cfg.ChatTimeout,
	}, logger)
	if err != nil {
		_ = creds.Close()
		return nil, err
	}

	s := session.New(creds, logger)
	a := &App{
		Config:  cfg,
		Store:   creds,
		Backend: client,
		Session: s,
		Auth:    session.NewAuth(s, client),
		Dispatcher: session.NewDispatcher(s, client, session.DispatcherOptions{
			LanguageSelection:   cfg.Features.Language,
			DefaultLanguage:     cfg.DefaultLanguage,
			EscalationResources: cfg.Features.EscalationResources,
		}),
		Wellness: wellness.NewService(s, client, cfg.Features.Mood, logger),
	}

	if err := a.Auth.Restore(ctx); err != nil {
		_ = creds.Close()
		return nil, err
	}
	return a, nil
}

// NewCredentialStore opens the credential store selected by cfg.
func NewCredentialStore(cfg *config.Config, logger *slog.Logger) (store.CredentialStore, error) {
	switch cfg.CredentialStore {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return store.New(store.KindRedis,
			store.WithRedisClient(client),
			store.WithRedisTTL(cfg.Redis.TTL),
			store.WithLogger(logger))
	case config.StoreMemory:
		return store.New(store.KindMemory)
	default:
		return store.New(store.KindSQLite, store.WithSQLitePath(cfg.DBPath))
	}
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.Store.Close()
}
