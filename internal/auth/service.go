package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/models/dto"
	"github.com/hongminglow/passvault-be/internal/storage"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the normalized email or phone already exists.
	ErrEmailTaken = errors.New("email or phone already registered")
	// ErrWeakPassword indicates the password fails the minimum length check.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	// ErrValidation indicates missing or malformed signup fields.
	ErrValidation = errors.New("username, email, phone, and password are required")
)

// TokenPair is the credential pair returned by register, login, and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service implements password-based session management: registration, login,
// and refresh-token based access token renewal.
type Service struct {
	users   storage.UserStore
	refresh storage.RefreshTokenStore
	tokens  *TokenManager

	refreshTTL time.Duration
	rotate     bool
}

// NewService constructs the session manager.
func NewService(users storage.UserStore, refresh storage.RefreshTokenStore, tokens *TokenManager, refreshTTL time.Duration, rotate bool) *Service {
	return &Service{
		users:      users,
		refresh:    refresh,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		rotate:     rotate,
	}
}

// Register validates and creates a user, then issues a fresh token pair.
// The email is normalized to lowercase before the uniqueness check and the
// plaintext password is hashed before it touches the store.
func (s *Service) Register(ctx context.Context, req dto.SignupRequest) (models.User, TokenPair, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	if username == "" || email == "" || phone == "" || req.Password == "" {
		return models.User{}, TokenPair{}, ErrValidation
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return models.User{}, TokenPair{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, TokenPair{}, ErrEmailTaken
		}
		return models.User{}, TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a token pair. Lookups are
// case-insensitive on email; failures are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, fmt.Errorf("fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh validates a stored refresh token and mints a new access token.
// The refresh token is kept as-is unless rotation is enabled, in which case
// the old token is revoked and a new one returned.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrInvalidToken
	}

	stored, err := s.refresh.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, fmt.Errorf("fetch refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.refresh.DeleteRefreshToken(ctx, refreshToken)
		return TokenPair{}, ErrInvalidToken
	}

	access, expiresAt, err := s.tokens.Generate(stored.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}

	if !s.rotate {
		return TokenPair{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt}, nil
	}

	rotated, err := s.createRefreshToken(ctx, stored.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.refresh.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: rotated, ExpiresAt: expiresAt}, nil
}

func (s *Service) issuePair(ctx context.Context, userID int64) (TokenPair, error) {
	access, expiresAt, err := s.tokens.Generate(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.createRefreshToken(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func (s *Service) createRefreshToken(ctx context.Context, userID int64) (string, error) {
	value, err := NewRefreshToken()
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	err = s.refresh.CreateRefreshToken(ctx, models.RefreshToken{
		Token:     value,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	})
	if err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return value, nil
}
