// Package handlers exposes the verification flows over HTTP. Handlers stay
// thin: decode, delegate to the orchestrator, map errors, encode.
package handlers

import (
	"context"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/identity"
	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/models/dto"
)

// Orchestrator is the slice of the identity service the handlers need.
type Orchestrator interface {
	Signup(ctx context.Context, req dto.SignupRequest) (identity.SignupResult, error)
	Login(ctx context.Context, email, password string) (models.User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Profile(ctx context.Context, userID int64) (models.User, error)
	SendOTPEmail(ctx context.Context, userID int64) error
	VerifySecretAccess(ctx context.Context, userID int64, code string) ([]models.SecretEntry, error)
	AddSecret(ctx context.Context, userID int64, req dto.AddSecretRequest) (models.SecretEntry, error)
	EnrollFace(ctx context.Context, userID int64, imageBytes []byte, filename string) (models.FaceArtifact, error)
	VerifyFace(ctx context.Context, userID int64, probeBytes []byte) (bool, float64, error)
}

// Handler serves the user-facing API.
type Handler struct {
	svc Orchestrator
}

// New constructs the handler set.
func New(svc Orchestrator) *Handler {
	return &Handler{svc: svc}
}
