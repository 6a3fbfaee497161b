package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authkit/pkg/password"
)

// Low cost keeps test runtime reasonable; correctness is cost-independent.
func testHasher() *password.Hasher {
	return password.New(password.WithCost(bcrypt.MinCost))
}

func TestHasher_Hash(t *testing.T) {
	t.Parallel()

	t.Run("round trip verifies", func(t *testing.T) {
		t.Parallel()

		h := testHasher()
		hash, err := h.Hash("s3cret-pw")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cret-pw", hash)

		assert.True(t, h.Verify("s3cret-pw", hash))
		assert.False(t, h.Verify("s3cret-pW", hash))
	})

	t.Run("same input yields distinct hashes", func(t *testing.T) {
		t.Parallel()

		h := testHasher()
		first, err := h.Hash("same-password")
		require.NoError(t, err)
		second, err := h.Hash("same-password")
		require.NoError(t, err)

		// Random salt means the stored forms differ, yet both verify.
		assert.NotEqual(t, first, second)
		assert.True(t, h.Verify("same-password", first))
		assert.True(t, h.Verify("same-password", second))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		t.Parallel()

		h := testHasher()
		hash, err := h.Hash("")
		require.ErrorIs(t, err, password.ErrEmptyPassword)
		assert.Empty(t, hash)
	})
}

func TestHasher_Verify(t *testing.T) {
	t.Parallel()

	t.Run("false for malformed hash", func(t *testing.T) {
		t.Parallel()

		h := testHasher()
		assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"))
		assert.False(t, h.Verify("anything", ""))
	})

	t.Run("false for hash of different password", func(t *testing.T) {
		t.Parallel()

		h := testHasher()
		hash, err := h.Hash("password-a")
		require.NoError(t, err)
		assert.False(t, h.Verify("password-b", hash))
	})
}

func TestWithCost(t *testing.T) {
	t.Parallel()

	t.Run("applies valid cost", func(t *testing.T) {
		t.Parallel()

		h := password.New(password.WithCost(bcrypt.MinCost))
		hash, err := h.Hash("pw12345678")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("ignores out-of-range cost", func(t *testing.T) {
		t.Parallel()

		h := password.New(password.WithCost(bcrypt.MaxCost + 10))
		hash, err := h.Hash("pw12345678")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}
