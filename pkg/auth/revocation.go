package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "authkit:revoked:"

// RedisRevocationStore keeps revoked token IDs in Redis, each entry
// expiring together with the token it blocks, so the set never needs
// garbage collection.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore wraps a connected Redis client.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke marks a token ID revoked until the given instant. Tokens already
// past expiry are ignored; there is nothing left to block.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if tokenID == "" || ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation: set: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID is on the revocation list.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	if err := s.client.Get(ctx, revocationKeyPrefix+tokenID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("revocation: get: %w", err)
	}
	return true, nil
}
