package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wellnest/companion/internal/backend"
	"github.com/wellnest/companion/internal/domain"
)

// RegisteredNotice is shown after a successful registration.
const RegisteredNotice = "Registration successful! Please login."

// AuthAPI is the part of the backend the auth controller needs.
type AuthAPI interface {
	Register(ctx context.Context, req backend.RegisterRequest) error
	Login(ctx context.Context, req backend.LoginRequest) (string, error)
}

// Auth drives register, login and logout transitions of a session.
type Auth struct {
	s      *Session
	api    AuthAPI
	logger *slog.Logger
}

// NewAuth creates an auth controller for s.
func NewAuth(s *Session, api AuthAPI) *Auth {
	return &Auth{s: s, api: api, logger: s.logger.With("component", "auth")}
}

// Register creates an account. The session stays anonymous either way; on
// success the caller should switch to its login view.
func (a *Auth) Register(ctx context.Context, username, email, password string) error {
	epoch, err := a.s.beginAuth()
	if err != nil {
		return err
	}
	defer a.s.end(opAuth, epoch)

	err = a.api.Register(ctx, backend.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		a.logger.Info("registration failed", "error", err)
		return asAuthError(err, backend.DefaultRegistrationError)
	}
	a.logger.Info("registration succeeded")
	return nil
}

// Login exchanges credentials for a token, stores it and marks the session
// authenticated. On failure the previous mode is restored.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	epoch, err := a.s.beginAuth()
	if err != nil {
		return err
	}
	defer a.s.end(opAuth, epoch)

	previous := a.s.Mode()
	a.s.setMode(epoch, domain.ModeAuthenticating)

	token, err := a.api.Login(ctx, backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.s.setMode(epoch, previous)
		a.logger.Info("login failed", "error", err)
		return asAuthError(err, backend.DefaultLoginError)
	}

	if err := a.s.commitLogin(ctx, epoch, token); err != nil {
		if errors.Is(err, ErrInterrupted) {
			return err
		}
		a.s.setMode(epoch, previous)
		a.logger.Error("failed to persist credential", "error", err)
		return &backend.AuthError{Message: backend.DefaultLoginError, Err: err}
	}
	a.logger.Info("login succeeded")
	return nil
}

// Logout clears the credential and the conversation log. In-memory state is
// reset even when the credential store fails; that error is returned.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.s.reset(ctx); err != nil {
		a.logger.Error("failed to clear credential", "error", err)
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info("logged out")
	return nil
}

// Restore authenticates the session from a persisted credential, if any.
func (a *Auth) Restore(ctx context.Context) error {
	token, ok, err := a.s.creds.Get(ctx)
	if err != nil {
		return fmt.Errorf("restore credential: %w", err)
	}
	epoch := a.s.currentEpoch()

	if ok && token != "" {
		a.s.setMode(epoch, domain.ModeAuthenticated)
		a.logger.Info("restored persisted credential")
		return nil
	}
	a.s.setMode(epoch, domain.ModeAnonymous)
	return nil
}

func asAuthError(err error, fallback string) error {
	var authErr *backend.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return &backend.AuthError{Message: fallback, Err: err}
}
