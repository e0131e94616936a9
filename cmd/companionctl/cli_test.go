package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/wellnest/companion/internal/app"
	"github.com/wellnest/companion/internal/config"
	"github.com/wellnest/companion/internal/store"
	"gopkg.in/yaml.v3"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "T1"})
	})
	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "echo: " + body.Message})
	})
	r.Post("/mood", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/wellness-plan", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"plan": "Stretch."})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Port:            "0",
		BackendURL:      srv.URL,
		CredentialStore: config.StoreMemory,
		ChatTimeout:     2 * time.Second,
		RequestTimeout:  2 * time.Second,
		DefaultLanguage: "en",
		Features:        config.Features{Language: true, Mood: true, EscalationResources: true},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	return a
}

func run(t *testing.T, a *app.App, stdin string, args ...string) (string, error) {
	t.Helper()
	c := newCLI(func(context.Context) (*app.App, error) { return a, nil })
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	c.root.SetIn(strings.NewReader(stdin))
	c.root.SetArgs(args)
	err := c.Execute(context.Background())
	return out.String(), err
}

func TestChatRequiresLogin(t *testing.T) {
	a := newTestApp(t)

	_, err := run(t, a, "", "chat", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not logged in")
}

func TestLoginChatStatusLogout(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "", "login", "--email", "a@b.com", "--password", "pw")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in (authenticated)")

	out, err = run(t, a, "", "chat", "I", "feel", "anxious")
	require.NoError(t, err)
	require.Equal(t, "[assistant] echo: I feel anxious\n", out)

	out, err = run(t, a, "", "status", "--output", "yaml")
	require.NoError(t, err)
	var report statusReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Equal(t, "authenticated", string(report.Mode))
	require.Equal(t, 2, report.Turns)

	_, err = run(t, a, "", "logout")
	require.NoError(t, err)

	out, err = run(t, a, "", "status", "-o", "json")
	require.NoError(t, err)
	report = statusReport{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, "anonymous", string(report.Mode))
	require.Zero(t, report.Turns)
}

func TestChatREPL(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "", "login", "--email", "a@b.com", "--password", "pw")
	require.NoError(t, err)

	out, err := run(t, a, "hi\n\n   \nbye\n/quit\nignored\n", "chat")
	require.NoError(t, err)
	require.Equal(t, "[assistant] echo: hi\n[assistant] echo: bye\n", out)
	require.Len(t, a.Session.Turns(), 4)
}

func TestWellnessCommands(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "", "login", "--email", "a@b.com", "--password", "pw")
	require.NoError(t, err)

	out, err := run(t, a, "", "mood", "calm", "--note", "good sleep")
	require.NoError(t, err)
	require.Equal(t, "Mood logged!\n", out)

	out, err = run(t, a, "", "meditation")
	require.NoError(t, err)
	require.Equal(t, "Unable to fetch meditation guidance.\n", out)

	out, err = run(t, a, "", "plan")
	require.NoError(t, err)
	require.Equal(t, "Stretch.\n", out)

	out, err = run(t, a, "", "digest", "--json")
	require.NoError(t, err)
	require.JSONEq(t, `{"meditation":"Unable to fetch meditation guidance.","plan":"Stretch."}`, out)
}

// closeCountingStore records how often the companion closed its store.
type closeCountingStore struct {
	store.CredentialStore
	closed int
}

func (s *closeCountingStore) Close() error {
	s.closed++
	return s.CredentialStore.Close()
}

func TestStatusRejectsUnknownFormat(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "", "status", "--output", "xml")
	require.Error(t, err)
}

func TestFailedCommandStillClosesCompanion(t *testing.T) {
	a := newTestApp(t)
	counting := &closeCountingStore{CredentialStore: a.Store}
	a.Store = counting

	_, err := run(t, a, "", "status", "--output", "xml")
	require.Error(t, err)
	require.Equal(t, 1, counting.closed)

	_, err = run(t, a, "", "chat", "hello")
	require.Error(t, err)
	require.Equal(t, 2, counting.closed)

	_, err = run(t, a, "", "status")
	require.NoError(t, err)
	require.Equal(t, 3, counting.closed)
}
