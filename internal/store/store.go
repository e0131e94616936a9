// Package store provides persistence for the session credential.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the key the credential is persisted under.
const DefaultKey = "jwt"

// Kind selects a credential store driver.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// Errors returned by the store factory.
var (
	ErrInvalidConfig = errors.New("invalid credential store configuration")
	ErrInvalidKind   = errors.New("invalid credential store kind")
)

// CredentialStore persists a single opaque bearer token across restarts.
type CredentialStore interface {
	// Set persists token, replacing any previous value.
	Set(ctx context.Context, token string) error

	// Get returns the persisted token. ok is false when none is stored.
	Get(ctx context.Context) (token string, ok bool, err error)

	// Clear removes the persisted token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Option configures a credential store.
type Option func(*options)

type options struct {
	key         string
	sqlitePath  string
	redisClient *redis.Client
	redisTTL    time.Duration
	logger      *slog.Logger
}

// WithKey overrides the key the token is stored under.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithSQLitePath sets the database file for the sqlite driver.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.sqlitePath = path
	}
}

// WithRedisClient sets the client for the redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) {
		o.redisClient = client
	}
}

// WithRedisTTL expires the redis key after ttl. Zero keeps it until cleared.
func WithRedisTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.redisTTL = ttl
	}
}

// WithLogger sets the logger drivers report non-fatal errors to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a CredentialStore of the given kind.
func New(kind Kind, opts ...Option) (CredentialStore, error) {
	o := &options{key: DefaultKey}
	for _, opt := range opts {
		opt(o)
	}
	if o.key == "" {
		return nil, ErrInvalidConfig
	}

	switch kind {
	case KindSQLite, "":
		if o.sqlitePath == "" {
			return nil, ErrInvalidConfig
		}
		return NewSQLite(o.sqlitePath, o.key)
	case KindRedis:
		if o.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		rs := NewRedis(o.redisClient, o.key, o.redisTTL)
		if o.logger != nil {
			rs.logger = o.logger
		}
		return rs, nil
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, ErrInvalidKind
	}
}
