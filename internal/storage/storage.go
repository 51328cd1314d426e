package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/passvault-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations on user rows.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	// SetOTPSecret persists the provisioned secret; it is written once and
	// never changed afterwards.
	SetOTPSecret(ctx context.Context, userID int64, secret string) error
	// SetLastOTP overwrites the last issued code in a single statement, so
	// concurrent sends resolve last-issue-wins.
	SetLastOTP(ctx context.Context, userID int64, code string) error
}

// SecretStore persists credential entries, keyed by owning user.
type SecretStore interface {
	CreateSecret(ctx context.Context, entry models.SecretEntry) (models.SecretEntry, error)
	ListSecretsByOwner(ctx context.Context, userID int64) ([]models.SecretEntry, error)
}

// FaceArtifactStore persists the one-per-user enrollment artifact reference.
type FaceArtifactStore interface {
	UpsertArtifact(ctx context.Context, artifact models.FaceArtifact) (models.FaceArtifact, error)
	FindArtifactByOwner(ctx context.Context, userID int64) (models.FaceArtifact, error)
}

// RefreshTokenStore persists session refresh tokens.
type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, token models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// Store is the full persistence surface used when wiring the application.
type Store interface {
	UserStore
	SecretStore
	FaceArtifactStore
	RefreshTokenStore
}
