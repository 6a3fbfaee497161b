package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie's wire name.
const CookieName = "token"

// DefaultSessionTTL bounds both the token expiry and the cookie max age.
const DefaultSessionTTL = 24 * time.Hour

// User is an identity record. Emails are stored normalized (trimmed,
// lowercased); two registrations differing only in case are the same
// account. CreatedAt is set once at registration and never updated.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string    // bcrypt output; the plaintext never persists
	AvatarRef    string    // opaque reference into the asset store, may be empty
	CreatedAt    time.Time
}

// Session is the artifact produced by a successful registration or login:
// the signed token plus what the HTTP layer needs to build the cookie.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// Storage is the external identity store. Implementations must enforce
// email uniqueness atomically (unique index or compare-and-insert) and map
// their duplicate-key rejection to ErrEmailAlreadyExists, and a missing
// record to ErrUserNotFound.
type Storage interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}

// RevocationStore tracks revoked token IDs until their natural expiry.
// Optional; without one logout cannot invalidate tokens held elsewhere.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
