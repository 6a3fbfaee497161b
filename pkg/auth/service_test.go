package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

const testSigningKey = "test-signing-key-at-least-32-chars!"

func newTestService(t *testing.T, storage Storage, opts ...Option) *Service {
	t.Helper()

	tokens, err := jwt.NewFromString(testSigningKey)
	require.NoError(t, err)

	opts = append([]Option{
		WithHasher(password.New(password.WithCost(bcrypt.MinCost))),
	}, opts...)

	return New(storage, tokens, opts...)
}

func hashFor(t *testing.T, plaintext string) string {
	t.Helper()
	h, err := password.New(password.WithCost(bcrypt.MinCost)).Hash(plaintext)
	require.NoError(t, err)
	return h
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates user and issues verifiable session", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStorage()
		svc := newTestService(t, store)

		session, err := svc.Register(ctx, "a@x.com", "pw123456", "profile_pictures/a.png")
		require.NoError(t, err)
		require.NotNil(t, session)

		created := store.byEmail("a@x.com")
		require.NotNil(t, created)
		assert.Equal(t, "a@x.com", created.Email)
		assert.NotEqual(t, "pw123456", created.PasswordHash)
		assert.Equal(t, "profile_pictures/a.png", created.AvatarRef)
		assert.False(t, created.CreatedAt.IsZero())

		claims, err := svc.WhoAmI(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, created.ID.String(), claims.Subject)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("normalizes email before any store call", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		user := &User{ID: uuid.New(), Email: "user@example.com"}
		storage.On("FindUserByEmail", ctx, "user@example.com").Return(nil, ErrUserNotFound).Once()
		storage.On("CreateUser", ctx, mock.AnythingOfType("*auth.User")).Return(nil).Once()
		storage.On("FindUserByEmail", ctx, "user@example.com").Return(user, nil).Once()

		_, err := svc.Register(ctx, "  User@Example.COM ", "pw123456", "")
		require.NoError(t, err)
		storage.AssertExpectations(t)
	})

	t.Run("existing email fails before hashing", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		storage.On("FindUserByEmail", ctx, "a@x.com").
			Return(&User{ID: uuid.New(), Email: "a@x.com"}, nil).Once()

		session, err := svc.Register(ctx, "a@x.com", "pw123456", "")
		require.ErrorIs(t, err, ErrEmailAlreadyExists)
		assert.Nil(t, session)
		storage.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("concurrent duplicate surfaces as ErrEmailAlreadyExists", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		// Pre-check passes but the unique index rejects the insert: the
		// classic two-registrations race. The store's answer wins.
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(nil, ErrUserNotFound).Once()
		storage.On("CreateUser", ctx, mock.AnythingOfType("*auth.User")).
			Return(ErrEmailAlreadyExists).Once()

		_, err := svc.Register(ctx, "a@x.com", "pw123456", "")
		require.ErrorIs(t, err, ErrEmailAlreadyExists)
		storage.AssertExpectations(t)
	})

	t.Run("weak input fails validation", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		_, err := svc.Register(ctx, "not-an-email", "short", "")
		require.Error(t, err)

		var verr validator.ValidationErrors
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields(), "email")
		assert.Contains(t, verr.Fields(), "password")
		storage.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("store outage surfaces as ErrStorageFailure", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		storage.On("FindUserByEmail", ctx, "a@x.com").
			Return(nil, errors.New("connection reset")).Once()

		_, err := svc.Register(ctx, "a@x.com", "pw123456", "")
		require.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid credentials issue a session", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		user := &User{
			ID:           uuid.New(),
			Email:        "a@x.com",
			PasswordHash: hashFor(t, "pw123456"),
			CreatedAt:    time.Now().UTC(),
		}
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(user, nil).Once()

		session, err := svc.Login(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, user.ID, session.User.ID)
		assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), session.ExpiresAt, 5*time.Second)

		claims, err := svc.WhoAmI(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
	})

	t.Run("unknown email fails ErrUserNotFound", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		storage.On("FindUserByEmail", ctx, "ghost@x.com").Return(nil, ErrUserNotFound).Once()

		_, err := svc.Login(ctx, "ghost@x.com", "whatever1")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password fails ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		user := &User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hashFor(t, "correct-pw")}
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(user, nil).Once()

		_, err := svc.Login(ctx, "a@x.com", "wrong-pw")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_WhoAmI(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	validSession := func(t *testing.T, svc *Service, storage *MockStorage) *Session {
		t.Helper()
		user := &User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hashFor(t, "pw123456")}
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(user, nil).Once()
		session, err := svc.Login(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)
		return session
	}

	t.Run("all token failures collapse to ErrUnauthenticated", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		svc := newTestService(t, storage)

		expiredSvc := newTestService(t, storage, WithSessionTTL(time.Nanosecond))
		user := &User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hashFor(t, "pw123456")}
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(user, nil)
		expired, err := expiredSvc.Login(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)
		time.Sleep(1100 * time.Millisecond) // exp has second resolution

		valid := validSession(t, svc, storage)
		tampered := valid.Token + "x"

		for name, token := range map[string]string{
			"missing":   "",
			"malformed": "definitely.not-a-jwt",
			"expired":   expired.Token,
			"tampered":  tampered,
		} {
			_, err := svc.WhoAmI(ctx, token)
			assert.ErrorIs(t, err, ErrUnauthenticated, name)
		}
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		revoker := &MockRevocationStore{}
		svc := newTestService(t, storage, WithRevocationStore(revoker))

		session := validSession(t, svc, storage)
		revoker.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()

		_, err := svc.WhoAmI(ctx, session.Token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unreachable revocation store fails closed", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		revoker := &MockRevocationStore{}
		svc := newTestService(t, storage, WithRevocationStore(revoker))

		session := validSession(t, svc, storage)
		revoker.On("IsRevoked", ctx, mock.AnythingOfType("string")).
			Return(false, errors.New("redis down")).Once()

		_, err := svc.WhoAmI(ctx, session.Token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestService_Logout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stateless logout is a no-op", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &MockStorage{})
		svc.Logout(ctx, "whatever") // must not panic or call anything
	})

	t.Run("revokes presented token until its expiry", func(t *testing.T) {
		t.Parallel()

		storage := &MockStorage{}
		revoker := &MockRevocationStore{}
		svc := newTestService(t, storage, WithRevocationStore(revoker))

		user := &User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hashFor(t, "pw123456")}
		storage.On("FindUserByEmail", ctx, "a@x.com").Return(user, nil).Once()
		session, err := svc.Login(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)

		revoker.On("Revoke", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		svc.Logout(ctx, session.Token)
		revoker.AssertExpectations(t)
	})

	t.Run("garbage token revokes nothing", func(t *testing.T) {
		t.Parallel()

		revoker := &MockRevocationStore{}
		svc := newTestService(t, &MockStorage{}, WithRevocationStore(revoker))

		svc.Logout(ctx, "not-a-token")
		revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_EndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Minimal in-memory store with the same uniqueness contract as the
	// Mongo-backed one.
	store := newMemoryStorage()
	svc := newTestService(t, store)

	registered, err := svc.Register(ctx, "a@x.com", "pw123456", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "different1", "")
	require.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, 1, store.count())

	session, err := svc.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	claims, err := svc.WhoAmI(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, registered.User.ID.String(), claims.Subject)

	// Logout is client-side without a revocation store: clearing the
	// cookie is all that happens, so an empty token is what a follow-up
	// request carries.
	svc.Logout(ctx, session.Token)
	_, err = svc.WhoAmI(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
