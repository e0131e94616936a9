package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "companion:credential:"

// RedisStore implements CredentialStore on a redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a redis-backed credential store. A ttl of zero keeps the
// token until it is cleared.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		client: client,
		key:    redisKeyPrefix + key,
		ttl:    ttl,
		logger: slog.Default(),
	}
}

// Set implements CredentialStore.
func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// Get implements CredentialStore. The TTL is refreshed on every read.
func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			s.logger.Debug("failed to refresh credential ttl", "key", s.key, "error", err)
		}
	}
	return token, true, nil
}

// Clear implements CredentialStore.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Ping implements CredentialStore.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements CredentialStore.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
