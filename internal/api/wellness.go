package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wellnest/companion/internal/wellness"
)

// WellnessHandler handles the mood, meditation and plan endpoints.
type WellnessHandler struct {
	*Handler
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(base *Handler) *WellnessHandler {
	return &WellnessHandler{Handler: base}
}

// RegisterRoutes registers wellness routes.
func (h *WellnessHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/mood", h.LogMood)
	r.Get("/api/meditation", h.Meditation)
	r.Get("/api/wellness-plan", h.WellnessPlan)
	r.Get("/api/digest", h.Digest)
}

type moodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

// LogMood records a mood entry.
func (h *WellnessHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.wellness.LogMood(r.Context(), req.Mood, req.Note)
	switch {
	case err == nil:
		JSON(w, http.StatusOK, map[string]string{"message": msg})
	case errors.Is(err, wellness.ErrMoodRequired):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wellness.ErrFeatureDisabled):
		Error(w, http.StatusNotFound, err.Error())
	default:
		JSON(w, http.StatusBadGateway, map[string]string{"message": msg, "error": err.Error()})
	}
}

// Meditation returns meditation guidance.
func (h *WellnessHandler) Meditation(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"meditation": h.wellness.Meditation(r.Context())})
}

// WellnessPlan returns the wellness plan.
func (h *WellnessHandler) WellnessPlan(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"plan": h.wellness.WellnessPlan(r.Context())})
}

// Digest returns meditation guidance and the plan together.
func (h *WellnessHandler) Digest(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.wellness.Digest(r.Context()))
}
