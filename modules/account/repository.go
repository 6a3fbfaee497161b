package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

const usersCollection = "users"

// Repository implements auth.Storage on MongoDB. Email uniqueness rests on
// a unique index, so concurrent inserts of the same email race safely: the
// loser gets a duplicate-key error mapped to auth.ErrEmailAlreadyExists.
type Repository struct {
	users *mongo.Collection
}

// NewRepository binds the repository to the users collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup;
// CreateOne is idempotent for an identical existing index.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("account: create email index: %w", err)
	}
	return nil
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	AvatarRef    string    `bson:"avatar_ref,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("account: find user: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("account: corrupt user id %q: %w", doc.ID, err)
	}

	return &auth.User{
		ID:           id,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		AvatarRef:    doc.AvatarRef,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *auth.User) error {
	doc := userDocument{
		ID:           user.ID.String(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		AvatarRef:    user.AvatarRef,
		CreatedAt:    user.CreatedAt,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("account: insert user: %w", err)
	}
	return nil
}
