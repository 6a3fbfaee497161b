package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// Service wires the password hasher, token service and identity store into
// the register/login/whoami/logout flow. Stateless and safe for concurrent
// use; every request is handled on its own goroutine, so the deliberately
// slow bcrypt step never serializes unrelated traffic.
type Service struct {
	storage    Storage
	tokens     *jwt.Service
	hasher     *password.Hasher
	revocation RevocationStore
	sessionTTL time.Duration
	log        *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithHasher overrides the default-cost password hasher.
func WithHasher(h *password.Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithSessionTTL overrides the 24h session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithRevocationStore enables server-side logout. Every WhoAmI then checks
// the store, failing closed if it is unreachable.
func WithRevocationStore(r RevocationStore) Option {
	return func(s *Service) { s.revocation = r }
}

// WithLogger sets the service logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates the authentication service.
func New(storage Storage, tokens *jwt.Service, opts ...Option) *Service {
	s := &Service{
		storage:    storage,
		tokens:     tokens,
		hasher:     password.New(),
		sessionTTL: DefaultSessionTTL,
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an identity record and signs the account in. avatarRef
// is an opaque asset-store reference and may be empty. The pre-insert
// existence check gives a friendly early answer, but the store's unique
// index is the authority: a duplicate slipping past the check (concurrent
// registration) surfaces as ErrEmailAlreadyExists from CreateUser.
func (s *Service) Register(ctx context.Context, email, plaintext, avatarRef string) (*Session, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.Required("email", email),
		validator.ValidEmail("email", email),
		validator.MinLength("password", plaintext, 8),
		validator.MaxLength("password", plaintext, 72),
	); err != nil {
		return nil, err
	}

	_, err := s.storage.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: check existing email: %v", ErrStorageFailure, err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		AvatarRef:    avatarRef,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStorageFailure, err)
	}

	// Re-read so the session reflects what the store actually persisted.
	created, err := s.storage.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: read back user: %v", ErrStorageFailure, err)
	}

	s.log.Info("user registered",
		slog.String("user_id", created.ID.String()),
		slog.String("email", created.Email),
	)

	return s.issueSession(*created)
}

// Login verifies credentials and signs the account in. Unknown emails and
// wrong passwords return distinct errors; collapsing them into one message
// is the HTTP layer's call.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*Session, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStorageFailure, err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return s.issueSession(*user)
}

// WhoAmI verifies a presented token and returns its claims. Every failure
// mode collapses to ErrUnauthenticated so callers cannot probe which check
// rejected the token; the distinction survives only in debug logs.
func (s *Service) WhoAmI(ctx context.Context, token string) (jwt.Claims, error) {
	if token == "" {
		return jwt.Claims{}, ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug("token rejected", slog.String("reason", err.Error()))
		return jwt.Claims{}, ErrUnauthenticated
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: an unreachable revocation store must not turn
			// revoked tokens back on.
			s.log.Error("revocation check failed", slog.String("error", err.Error()))
			return jwt.Claims{}, ErrUnauthenticated
		}
		if revoked {
			s.log.Debug("token rejected", slog.String("reason", "revoked"))
			return jwt.Claims{}, ErrUnauthenticated
		}
	}

	return claims, nil
}

// Logout always succeeds; clearing the cookie is the HTTP layer's job. When
// a revocation store is wired, the presented token (if valid) is also
// revoked until its natural expiry, so it cannot be replayed elsewhere.
func (s *Service) Logout(ctx context.Context, token string) {
	if s.revocation == nil || token == "" {
		return
	}

	claims, err := s.tokens.Verify(token)
	if err != nil || claims.ID == "" {
		// Nothing worth revoking.
		return
	}

	if err := s.revocation.Revoke(ctx, claims.ID, claims.Expiry()); err != nil {
		s.log.Error("revoke on logout failed",
			slog.String("token_id", claims.ID),
			slog.String("error", err.Error()),
		)
	}
}

// SessionTTL reports the configured session lifetime; the HTTP layer uses
// it for the cookie max age so both bounds stay in sync.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *Service) issueSession(user User) (*Session, error) {
	claims := jwt.Claims{
		ID:      uuid.NewString(),
		Subject: user.ID.String(),
		Email:   user.Email,
	}

	token, err := s.tokens.Issue(claims, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}, nil
}
