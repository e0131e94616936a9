package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential in process memory. It does not survive a
// restart and is meant for tests and throwaway sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Set implements CredentialStore.
func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Get implements CredentialStore.
func (s *MemoryStore) Get(_ context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set, nil
}

// Clear implements CredentialStore.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// Ping implements CredentialStore.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close implements CredentialStore.
func (s *MemoryStore) Close() error { return nil }

var (
	_ CredentialStore = (*MemoryStore)(nil)
	_ CredentialStore = (*SQLiteStore)(nil)
	_ CredentialStore = (*RedisStore)(nil)
)
