// Package api provides the local HTTP surface of the wellness companion.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wellnest/companion/internal/session"
	"github.com/wellnest/companion/internal/wellness"
)

const maxBodyBytes = 1 << 20

// Handler provides common handler utilities.
type Handler struct {
	session    *session.Session
	auth       *session.Auth
	dispatcher *session.Dispatcher
	wellness   *wellness.Service
	logger     *slog.Logger
}

// NewHandler creates a new Handler over one companion session.
func NewHandler(s *session.Session, auth *session.Auth, d *session.Dispatcher, w *wellness.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		session:    s,
		auth:       auth,
		dispatcher: d,
		wellness:   w,
		logger:     logger,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a size-limited JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid request body")
	}
	return nil
}
