package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/storage"
)

// UpsertArtifact stores the enrollment artifact reference. Re-enrollment
// replaces the previous artifact for the same user.
func (s *Store) UpsertArtifact(ctx context.Context, artifact models.FaceArtifact) (models.FaceArtifact, error) {
	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO face_artifacts (id, user_id, path)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET path = EXCLUDED.path, created_at = NOW()
		RETURNING id, user_id, path, created_at;`

	row := s.pool.QueryRow(ctx, query, artifact.ID, artifact.UserID, artifact.Path)
	var stored models.FaceArtifact
	if err := row.Scan(&stored.ID, &stored.UserID, &stored.Path, &stored.CreatedAt); err != nil {
		return models.FaceArtifact{}, fmt.Errorf("upsert face artifact: %w", err)
	}
	return stored, nil
}

// FindArtifactByOwner fetches the enrolled artifact for a user.
func (s *Store) FindArtifactByOwner(ctx context.Context, userID int64) (models.FaceArtifact, error) {
	const query = `SELECT id, user_id, path, created_at FROM face_artifacts WHERE user_id = $1;`

	row := s.pool.QueryRow(ctx, query, userID)
	var artifact models.FaceArtifact
	if err := row.Scan(&artifact.ID, &artifact.UserID, &artifact.Path, &artifact.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FaceArtifact{}, storage.ErrNotFound
		}
		return models.FaceArtifact{}, err
	}
	return artifact, nil
}
