package wellness

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/wellnest/companion/internal/backend"
)

type staticToken struct {
	token string
	err   error
}

func (s staticToken) Token(context.Context) (string, bool, error) {
	return s.token, s.token != "", s.err
}

func newBackend(t *testing.T, r http.Handler) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(backend.ClientConfig{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	return c
}

func requireBearer(t *testing.T, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T1" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func TestLogMood(t *testing.T) {
	var got backend.MoodRequest
	r := chi.NewRouter()
	r.Post("/mood", requireBearer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	svc := NewService(staticToken{token: "T1"}, newBackend(t, r), true, nil)

	msg, err := svc.LogMood(context.Background(), "calm", "slept well")
	require.NoError(t, err)
	require.Equal(t, "Mood logged!", msg)
	require.Equal(t, backend.MoodRequest{Mood: "calm", Note: "slept well"}, got)
}

func TestLogMoodFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/mood", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc := NewService(staticToken{token: "T1"}, newBackend(t, r), true, nil)

	msg, err := svc.LogMood(context.Background(), "sad", "")
	require.Error(t, err)
	require.Equal(t, "Failed to log mood.", msg)
	var serverErr *backend.ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, http.StatusInternalServerError, serverErr.Status)
}

func TestLogMoodRejected(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Post("/mood", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})
	api := newBackend(t, r)

	_, err := NewService(staticToken{token: "T1"}, api, true, nil).LogMood(context.Background(), "  ", "note")
	require.ErrorIs(t, err, ErrMoodRequired)

	_, err = NewService(staticToken{token: "T1"}, api, false, nil).LogMood(context.Background(), "calm", "")
	require.ErrorIs(t, err, ErrFeatureDisabled)

	msg, err := NewService(staticToken{}, api, true, nil).LogMood(context.Background(), "calm", "")
	require.ErrorIs(t, err, backend.ErrNoCredential)
	require.Equal(t, MoodFailed, msg)

	require.Zero(t, calls.Load())
}

func TestMeditationAndPlan(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/meditation", requireBearer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"meditation": "Breathe in for four counts."})
	}))
	r.Get("/wellness-plan", requireBearer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"plan": "Walk 20 minutes daily."})
	}))
	svc := NewService(staticToken{token: "T1"}, newBackend(t, r), true, nil)

	require.Equal(t, "Breathe in for four counts.", svc.Meditation(context.Background()))
	require.Equal(t, "Walk 20 minutes daily.", svc.WellnessPlan(context.Background()))
	require.Equal(t, Digest{Meditation: "Breathe in for four counts.", Plan: "Walk 20 minutes daily."}, svc.Digest(context.Background()))
}

func TestFallbacks(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/meditation", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/wellness-plan", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"plan": "Rest."})
	})
	svc := NewService(staticToken{token: "T1"}, newBackend(t, r), true, nil)

	require.Equal(t, "Unable to fetch meditation guidance.", svc.Meditation(context.Background()))
	require.Equal(t, Digest{Meditation: MeditationFallback, Plan: "Rest."}, svc.Digest(context.Background()))

	anonymous := NewService(staticToken{}, newBackend(t, r), true, nil)
	require.Equal(t, "Unable to fetch wellness plan.", anonymous.WellnessPlan(context.Background()))

	broken := NewService(staticToken{err: errors.New("store offline")}, newBackend(t, r), true, nil)
	require.Equal(t, Digest{Meditation: MeditationFallback, Plan: WellnessPlanFallback}, broken.Digest(context.Background()))
}
