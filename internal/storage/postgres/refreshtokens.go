package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/storage"
)

// CreateRefreshToken persists a newly issued refresh token.
func (s *Store) CreateRefreshToken(ctx context.Context, token models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3);`
	_, err := s.pool.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	return err
}

// FindRefreshToken looks up a refresh token by its value.
func (s *Store) FindRefreshToken(ctx context.Context, token string) (models.RefreshToken, error) {
	const query = `SELECT token, user_id, expires_at FROM refresh_tokens WHERE token = $1;`

	row := s.pool.QueryRow(ctx, query, token)
	var stored models.RefreshToken
	if err := row.Scan(&stored.Token, &stored.UserID, &stored.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RefreshToken{}, storage.ErrNotFound
		}
		return models.RefreshToken{}, err
	}
	return stored, nil
}

// DeleteRefreshToken revokes a refresh token.
func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	const query = `DELETE FROM refresh_tokens WHERE token = $1;`
	_, err := s.pool.Exec(ctx, query, token)
	return err
}
