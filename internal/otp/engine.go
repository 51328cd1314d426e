// Package otp implements the time-boxed one-time-passcode lifecycle that
// gates read access to stored secrets. Codes are standard TOTP values
// derived from a per-user secret and a fixed time step.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/hongminglow/passvault-be/internal/models"
)

var (
	// ErrEmptyCode is an input error: no secret computation is attempted.
	ErrEmptyCode = errors.New("otp code is required")
	// ErrNotProvisioned indicates the user has no OTP secret yet.
	ErrNotProvisioned = errors.New("otp secret not provisioned")
)

// Store is the slice of user persistence the engine needs.
type Store interface {
	SetOTPSecret(ctx context.Context, userID int64, secret string) error
	SetLastOTP(ctx context.Context, userID int64, code string) error
}

// Engine generates and verifies codes bound to a per-user secret and a time
// window. Verification tolerates one adjacent step of clock skew; outside
// that a code never validates.
type Engine struct {
	store  Store
	issuer string
	period time.Duration

	// now is swapped in tests to pin the time window.
	now func() time.Time
}

// NewEngine constructs an engine with the given issuer label and time step.
func NewEngine(store Store, issuer string, period time.Duration) *Engine {
	return &Engine{
		store:  store,
		issuer: issuer,
		period: period,
		now:    time.Now,
	}
}

func (e *Engine) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(e.period / time.Second),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Provision generates and persists a high-entropy secret for the user if one
// does not exist yet. Idempotent: an already provisioned user keeps their
// secret.
func (e *Engine) Provision(ctx context.Context, user models.User) (string, error) {
	if user.OTPSecret != "" {
		return user.OTPSecret, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: user.Email,
		Period:      uint(e.period / time.Second),
	})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}

	secret := key.Secret()
	if err := e.store.SetOTPSecret(ctx, user.ID, secret); err != nil {
		return "", fmt.Errorf("store otp secret: %w", err)
	}
	return secret, nil
}

// Issue derives the code for the current time window and persists it as the
// user's last issued value. A newer issue supersedes the previous one.
func (e *Engine) Issue(ctx context.Context, user models.User, secret string) (string, error) {
	if secret == "" {
		return "", ErrNotProvisioned
	}

	code, err := totp.GenerateCodeCustom(secret, e.now(), e.opts())
	if err != nil {
		return "", fmt.Errorf("derive otp code: %w", err)
	}

	if err := e.store.SetLastOTP(ctx, user.ID, code); err != nil {
		return "", fmt.Errorf("store issued otp: %w", err)
	}
	return code, nil
}

// Verify recomputes the code for the current window (and one adjacent step)
// and compares. A mismatch returns false with no error: the caller retries,
// the engine does not.
func (e *Engine) Verify(user models.User, submitted string) (bool, error) {
	if submitted == "" {
		return false, ErrEmptyCode
	}
	if user.OTPSecret == "" {
		return false, ErrNotProvisioned
	}

	valid, err := totp.ValidateCustom(submitted, user.OTPSecret, e.now(), e.opts())
	if err != nil {
		return false, fmt.Errorf("validate otp code: %w", err)
	}
	return valid, nil
}
