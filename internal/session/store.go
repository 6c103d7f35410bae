package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks revoked tokens so a logout invalidates the bearer token
// server-side before its natural expiry.
type Store interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Store backed by a Redis denylist. Entries expire
// together with the token they revoke, so the set never grows unbounded.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func revocationKey(jti string) string {
	return "session:revoked:" + jti
}

// Revoke denylists a token ID for the remaining token lifetime.
func (s *redisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to revoke.
		return nil
	}
	if err := s.rdb.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been denylisted.
func (s *redisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}
