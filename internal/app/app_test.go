package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wellnest/companion/internal/config"
	"github.com/wellnest/companion/internal/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "8080",
		BackendURL:      "http://127.0.0.1:5000",
		CredentialStore: config.StoreSQLite,
		DBPath:          filepath.Join(t.TempDir(), "companion.db"),
		ChatTimeout:     time.Second,
		RequestTimeout:  time.Second,
		DefaultLanguage: "en",
		Features:        config.Features{Language: true, Mood: true, EscalationResources: true},
	}
}

func TestNewRestoresPersistedCredential(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, domain.ModeAnonymous, first.Session.Mode())
	require.NoError(t, first.Store.Set(ctx, "T1"))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()
	require.Equal(t, domain.ModeAuthenticated, second.Session.Mode())

	token, ok, err := second.Session.Token(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", token)
}

func TestNewRejectsUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.CredentialStore = config.StoreRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := New(ctx, cfg, nil)
	require.Error(t, err)
}

func TestNewMemoryStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.CredentialStore = config.StoreMemory

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	require.Equal(t, domain.ModeAnonymous, a.Session.Mode())
}
