package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/face"
	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/identity"
	"github.com/hongminglow/passvault-be/internal/otp"
)

// writeError maps domain errors onto the response taxonomy. Anything
// unrecognized becomes an opaque 500: internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, otp.ErrEmptyCode),
		errors.Is(err, otp.ErrNotProvisioned),
		errors.Is(err, identity.ErrMissingFields):
		respond.Error(w, http.StatusBadRequest, "input_error", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		respond.Error(w, http.StatusUnauthorized, "auth_error", err.Error())
	case errors.Is(err, identity.ErrInvalidCode):
		respond.Error(w, http.StatusUnauthorized, "auth_error", identity.ErrInvalidCode.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "conflict_error", auth.ErrEmailTaken.Error())
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrNoEnrolledFace):
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, face.ErrDecode),
		errors.Is(err, face.ErrNoFaceDetected):
		respond.Error(w, http.StatusUnprocessableEntity, "biometric_error", err.Error())
	case errors.Is(err, identity.ErrDelivery),
		errors.Is(err, context.DeadlineExceeded):
		respond.Error(w, http.StatusBadGateway, "transient_error", "temporary failure, try again")
	default:
		respond.Error(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
