package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/passvault-be/internal/models"
)

// CreateSecret inserts a credential entry for its owner.
func (s *Store) CreateSecret(ctx context.Context, entry models.SecretEntry) (models.SecretEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO secret_entries (id, user_id, domain_name, secret, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, domain_name, secret, link, created_at, updated_at;`

	row := s.pool.QueryRow(ctx, query, entry.ID, entry.UserID, entry.DomainName, entry.Secret, entry.Link)
	var created models.SecretEntry
	err := row.Scan(&created.ID, &created.UserID, &created.DomainName,
		&created.Secret, &created.Link, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return models.SecretEntry{}, fmt.Errorf("insert secret entry: %w", err)
	}
	return created, nil
}

// ListSecretsByOwner returns every entry owned by userID and nothing else.
// Ownership is enforced here, in the query itself.
func (s *Store) ListSecretsByOwner(ctx context.Context, userID int64) ([]models.SecretEntry, error) {
	const query = `
		SELECT id, user_id, domain_name, secret, link, created_at, updated_at
		FROM secret_entries
		WHERE user_id = $1
		ORDER BY created_at;`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list secret entries: %w", err)
	}
	defer rows.Close()

	var entries []models.SecretEntry
	for rows.Next() {
		var e models.SecretEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.DomainName, &e.Secret, &e.Link, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan secret entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
