package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wellnest/companion/internal/backend"
	"github.com/wellnest/companion/internal/domain"
	"github.com/wellnest/companion/internal/session"
)

// SessionHandler handles auth and chat endpoints.
type SessionHandler struct {
	*Handler
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *Handler) *SessionHandler {
	return &SessionHandler{Handler: base}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/register", h.Register)
	r.Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)
	r.Get("/api/session", h.State)
	r.Post("/api/chat", h.Chat)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// Register creates an account on the wellness service.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.authFailure(w, err, http.StatusBadRequest)
		return
	}
	JSON(w, http.StatusCreated, map[string]string{"status": session.RegisteredNotice})
}

// Login authenticates the session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.Login(r.Context(), req.Email, req.Password); err != nil {
		h.authFailure(w, err, http.StatusUnauthorized)
		return
	}
	JSON(w, http.StatusOK, map[string]domain.AuthMode{"mode": h.session.Mode()})
}

// Logout clears the credential and the conversation.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Error("Logout failed", "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear credential")
		return
	}
	JSON(w, http.StatusOK, map[string]domain.AuthMode{"mode": h.session.Mode()})
}

// State returns the auth mode, pending flag and conversation log.
func (h *SessionHandler) State(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.session.View())
}

// Chat sends one message and returns the turns it produced.
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	turns, err := h.dispatcher.Send(r.Context(), req.Message, req.Language)
	switch {
	case err == nil:
		JSON(w, http.StatusOK, map[string][]domain.Turn{"turns": turns})
	case errors.Is(err, session.ErrEmptyMessage):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotAuthenticated):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrBusy):
		Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Chat failed", "error", err)
		Error(w, http.StatusInternalServerError, "chat failed")
	}
}

func (h *SessionHandler) authFailure(w http.ResponseWriter, err error, status int) {
	var authErr *backend.AuthError
	switch {
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrInterrupted):
		Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &authErr):
		Error(w, status, authErr.Message)
	default:
		h.logger.Error("Auth request failed", "error", err)
		Error(w, http.StatusInternalServerError, "authentication failed")
	}
}
