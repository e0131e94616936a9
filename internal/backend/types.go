// Package backend is the HTTP client for the remote wellness service.
package backend

import "github.com/wellnest/companion/internal/domain"

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// ChatResponse is the decoded reply of POST /chat. Reply is nil when the
// server omitted the field.
type ChatResponse struct {
	Reply     *string           `json:"reply"`
	Escalate  bool              `json:"escalate,omitempty"`
	Resources []ResourcePayload `json:"resources,omitempty"`
}

// ResourcePayload is a crisis resource as sent by the server.
type ResourcePayload struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// DomainResources converts the payload into domain resources, preserving order.
func (r ChatResponse) DomainResources() []domain.Resource {
	if len(r.Resources) == 0 {
		return nil
	}
	out := make([]domain.Resource, 0, len(r.Resources))
	for _, res := range r.Resources {
		out = append(out, domain.Resource{Name: res.Name, Contact: res.Number})
	}
	return out
}

// MoodRequest is the body of POST /mood.
type MoodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

type meditationResponse struct {
	Meditation string `json:"meditation"`
}

type planResponse struct {
	Plan string `json:"plan"`
}

type errorResponse struct {
	Error string `json:"error"`
}
