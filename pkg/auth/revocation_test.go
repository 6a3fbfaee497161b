package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

func newRevocationStore(t *testing.T) (*auth.RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewRedisRevocationStore(client), mr
}

func TestRedisRevocationStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("revoked id is reported until expiry", func(t *testing.T) {
		t.Parallel()

		store, mr := newRevocationStore(t)

		require.NoError(t, store.Revoke(ctx, "token-1", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "token-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		// The entry disappears together with the token's lifetime.
		mr.FastForward(2 * time.Hour)
		revoked, err = store.IsRevoked(ctx, "token-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown id is not revoked", func(t *testing.T) {
		t.Parallel()

		store, _ := newRevocationStore(t)
		revoked, err := store.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoking an already-expired token is a no-op", func(t *testing.T) {
		t.Parallel()

		store, _ := newRevocationStore(t)
		require.NoError(t, store.Revoke(ctx, "token-2", time.Now().Add(-time.Minute)))

		revoked, err := store.IsRevoked(ctx, "token-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("empty token id is ignored", func(t *testing.T) {
		t.Parallel()

		store, _ := newRevocationStore(t)
		require.NoError(t, store.Revoke(ctx, "", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
