package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/wellnest/companion/internal/middleware"
)

// NewRouter assembles the companion HTTP surface. events, when non-nil, is
// mounted at /ws/session.
func NewRouter(base *Handler, health *HealthHandler, events http.Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(allowedOrigins))

	health.RegisterHealth(r)
	NewSessionHandler(base).RegisterRoutes(r)
	NewWellnessHandler(base).RegisterRoutes(r)

	if events != nil {
		r.Get("/ws/session", events.ServeHTTP)
	}
	return r
}
