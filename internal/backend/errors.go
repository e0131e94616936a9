package backend

import (
	"errors"
	"fmt"
)

// Default messages surfaced to users when the server gives none.
const (
	DefaultLoginError        = "Login failed"
	DefaultRegistrationError = "Registration failed"
	transportMessage         = "unable to reach the wellness service"
)

// ErrNoCredential is returned by protected calls made without a token.
var ErrNoCredential = errors.New("no credential")

// AuthError is a registration or login failure. Message is safe to show.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError is a network-level failure. Error() never exposes the raw
// cause; use errors.Unwrap or errors.As to inspect it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return transportMessage }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message holds the body's "error" field
// when the server sent one.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
}

// authError converts a failed register/login call into an AuthError,
// preferring the server-provided message over fallback.
func authError(err error, fallback string) *AuthError {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return &AuthError{Message: se.Message, Err: err}
	}
	return &AuthError{Message: fallback, Err: err}
}
