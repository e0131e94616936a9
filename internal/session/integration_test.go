package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/wellnest/companion/internal/backend"
	"github.com/wellnest/companion/internal/domain"
	"github.com/wellnest/companion/internal/store"
)

// newWellnessBackend serves the remote contract: /login issues T1 and /chat
// escalates whenever the message mentions "crisis".
func newWellnessBackend(t *testing.T) *backend.Client {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		var body backend.LoginRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "T1"})
	})
	r.Post("/chat", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer T1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body backend.ChatRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Message == "crisis" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"reply":     "I'm concerned",
				"escalate":  true,
				"resources": []map[string]string{{"name": "Crisis Line", "number": "988"}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"reply": "Let's talk", "escalate": false})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := backend.DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()
	client, err := backend.NewClient(cfg, nil)
	require.NoError(t, err)
	return client
}

func TestConversationAgainstBackend(t *testing.T) {
	ctx := context.Background()
	api := newWellnessBackend(t)
	creds := store.NewMemory()
	s := New(creds, nil)
	auth := NewAuth(s, api)
	dispatcher := NewDispatcher(s, api, DefaultDispatcherOptions())

	err := auth.Login(ctx, "a@b.com", "wrong")
	var authErr *backend.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "Invalid credentials", authErr.Message)
	require.Equal(t, domain.ModeAnonymous, s.Mode())

	require.NoError(t, auth.Login(ctx, "a@b.com", "pw"))
	token, ok, err := creds.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", token)

	_, err = dispatcher.Send(ctx, "I feel anxious", "en")
	require.NoError(t, err)
	_, err = dispatcher.Send(ctx, "crisis", "en")
	require.NoError(t, err)

	turns := s.Turns()
	require.Equal(t, []domain.Role{
		domain.RoleUser, domain.RoleAssistant,
		domain.RoleUser, domain.RoleAssistant, domain.RoleSystem,
	}, roles(turns))
	require.Equal(t, "Let's talk", turns[1].Content)
	require.Equal(t, "I'm concerned", turns[3].Content)
	require.Equal(t, "Resources:\nCrisis Line: 988", turns[4].Content)

	require.NoError(t, auth.Logout(ctx))
	require.Empty(t, s.Turns())
	_, ok, err = creds.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
