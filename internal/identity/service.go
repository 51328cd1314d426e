// Package identity composes the session manager, OTP engine, and face
// verifier into the end-to-end verification flows.
package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/face"
	"github.com/hongminglow/passvault-be/internal/mail"
	"github.com/hongminglow/passvault-be/internal/media"
	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/models/dto"
	"github.com/hongminglow/passvault-be/internal/otp"
	"github.com/hongminglow/passvault-be/internal/storage"
)

var (
	// ErrNoEnrolledFace distinguishes "nothing to compare against" from a
	// failed match.
	ErrNoEnrolledFace = errors.New("no enrolled face artifact")
	// ErrInvalidCode is the business-logic failure for a wrong or expired
	// OTP code; callers may retry with a fresh code.
	ErrInvalidCode = errors.New("invalid or expired otp code")
	// ErrDelivery indicates the OTP email could not be handed to the relay.
	ErrDelivery = errors.New("otp email delivery failed")
	// ErrUserNotFound indicates the authenticated user row is gone.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingFields indicates a secret entry without its required fields.
	ErrMissingFields = errors.New("domain_name and password are required")
)

// SignupResult reports a completed signup. EnrollWarning is non-nil when a
// face image was submitted but enrollment failed; the account itself is
// created and usable either way.
type SignupResult struct {
	User          models.User
	Tokens        auth.TokenPair
	EnrollWarning error
}

// Service orchestrates signup-with-enrollment, OTP-gated secret access, and
// face re-verification.
type Service struct {
	users    storage.UserStore
	secrets  storage.SecretStore
	faces    storage.FaceArtifactStore
	sessions *auth.Service
	engine   *otp.Engine
	verifier *face.Verifier
	media    *media.Store
	mailer   mail.Sender
	logger   *zap.Logger
}

// NewService wires the orchestrator.
func NewService(
	users storage.UserStore,
	secrets storage.SecretStore,
	faces storage.FaceArtifactStore,
	sessions *auth.Service,
	engine *otp.Engine,
	verifier *face.Verifier,
	mediaStore *media.Store,
	mailer mail.Sender,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:    users,
		secrets:  secrets,
		faces:    faces,
		sessions: sessions,
		engine:   engine,
		verifier: verifier,
		media:    mediaStore,
		mailer:   mailer,
		logger:   logger,
	}
}

// Signup registers the user and, when a face image is attached, attempts
// enrollment. Enrollment failure does not roll back the account; it is
// reported in the result so the caller can surface a partial success.
func (s *Service) Signup(ctx context.Context, req dto.SignupRequest) (SignupResult, error) {
	user, pair, err := s.sessions.Register(ctx, req)
	if err != nil {
		return SignupResult{}, err
	}

	result := SignupResult{User: user, Tokens: pair}
	if req.FaceImage == "" {
		return result, nil
	}

	imageBytes, err := decodeBase64Image(req.FaceImage)
	if err == nil {
		_, err = s.EnrollFace(ctx, user.ID, imageBytes, "signup.png")
	}
	if err != nil {
		s.logger.Warn("face enrollment failed during signup",
			zap.Int64("user_id", user.ID), zap.Error(err))
		result.EnrollWarning = err
	}
	return result, nil
}

// Login delegates to the session manager.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, auth.TokenPair, error) {
	return s.sessions.Login(ctx, email, password)
}

// Refresh delegates to the session manager.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	return s.sessions.Refresh(ctx, refreshToken)
}

// Profile returns the authenticated user's record.
func (s *Service) Profile(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

// SendOTPEmail provisions the user's secret if needed, issues a code for the
// current window, and emails it. The issued value supersedes any previous
// one.
func (s *Service) SendOTPEmail(ctx context.Context, userID int64) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	secret, err := s.engine.Provision(ctx, user)
	if err != nil {
		return err
	}

	code, err := s.engine.Issue(ctx, user, secret)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your one-time passcode is %s. It expires shortly; request a new one if it is rejected.", code)
	if err := s.mailer.Send(user.Email, "Your PassVault verification code", body); err != nil {
		s.logger.Error("otp email delivery failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// VerifySecretAccess checks the submitted code against the user's current
// OTP window and, only on success, returns the user's secret entries.
func (s *Service) VerifySecretAccess(ctx context.Context, userID int64, code string) ([]models.SecretEntry, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid, err := s.engine.Verify(user, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCode
	}

	entries, err := s.secrets.ListSecretsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return entries, nil
}

// AddSecret stores a credential entry for the caller.
func (s *Service) AddSecret(ctx context.Context, userID int64, req dto.AddSecretRequest) (models.SecretEntry, error) {
	if strings.TrimSpace(req.DomainName) == "" || req.Password == "" {
		return models.SecretEntry{}, ErrMissingFields
	}

	entry, err := s.secrets.CreateSecret(ctx, models.SecretEntry{
		UserID:     userID,
		DomainName: strings.TrimSpace(req.DomainName),
		Secret:     req.Password,
		Link:       strings.TrimSpace(req.Link),
	})
	if err != nil {
		return models.SecretEntry{}, fmt.Errorf("create secret: %w", err)
	}
	return entry, nil
}

// EnrollFace extracts an embedding from the image (rejecting undecodable
// input and images without a detectable face), stores the image on the media
// store, and records the artifact reference.
func (s *Service) EnrollFace(ctx context.Context, userID int64, imageBytes []byte, filename string) (models.FaceArtifact, error) {
	if _, err := s.verifier.Embed(ctx, imageBytes); err != nil {
		return models.FaceArtifact{}, err
	}

	path, err := s.media.Save(imageBytes, filename)
	if err != nil {
		return models.FaceArtifact{}, err
	}

	artifact, err := s.faces.UpsertArtifact(ctx, models.FaceArtifact{UserID: userID, Path: path})
	if err != nil {
		return models.FaceArtifact{}, fmt.Errorf("store face artifact: %w", err)
	}
	return artifact, nil
}

// VerifyFace compares a probe image against the user's enrolled artifact and
// returns the binary decision with the measured distance. Verification is
// read-only.
func (s *Service) VerifyFace(ctx context.Context, userID int64, probeBytes []byte) (bool, float64, error) {
	artifact, err := s.faces.FindArtifactByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, 0, ErrNoEnrolledFace
		}
		return false, 0, fmt.Errorf("fetch face artifact: %w", err)
	}

	enrolledBytes, err := s.media.Read(artifact.Path)
	if err != nil {
		return false, 0, fmt.Errorf("%w: artifact unreadable", ErrNoEnrolledFace)
	}

	probe, err := s.verifier.Embed(ctx, probeBytes)
	if err != nil {
		return false, 0, err
	}
	enrolled, err := s.verifier.Embed(ctx, enrolledBytes)
	if err != nil {
		return false, 0, fmt.Errorf("enrolled artifact: %w", err)
	}

	match, dist := s.verifier.Match(probe, enrolled)
	return match, dist, nil
}

// decodeBase64Image accepts raw base64 or a data-URL prefixed payload.
func decodeBase64Image(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload", face.ErrDecode)
	}
	return data, nil
}
