package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/storage"
)

const userColumns = `id, username, email, phone, password_hash, otp_secret, otp_generated, created_at`

// CreateUser inserts a new user row. A unique violation on email or phone
// maps to storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `;`

	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.Phone, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email. Emails are stored lowercase; callers
// normalize before lookup.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// SetOTPSecret records the provisioned OTP secret. Only an unprovisioned row
// is updated, so a concurrent provision cannot overwrite an existing secret.
func (s *Store) SetOTPSecret(ctx context.Context, userID int64, secret string) error {
	const query = `UPDATE users SET otp_secret = $1 WHERE id = $2 AND otp_secret = '';`
	_, err := s.pool.Exec(ctx, query, secret, userID)
	return err
}

// SetLastOTP overwrites the last issued code. Single UPDATE: concurrent
// issues race safely, last write wins.
func (s *Store) SetLastOTP(ctx context.Context, userID int64, code string) error {
	const query = `UPDATE users SET otp_generated = $1 WHERE id = $2;`
	tag, err := s.pool.Exec(ctx, query, code, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.PasswordHash, &user.OTPSecret, &user.LastOTP, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
