package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/middleware"
	"github.com/hongminglow/passvault-be/internal/models/dto"
)

// Signup creates a user, optionally enrolls the submitted face image, and
// returns a token pair. An enrollment failure is reported in the payload
// while the account and tokens remain valid.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "input_error", "invalid JSON payload")
		return
	}

	result, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := dto.SignupResponse{
		TokenResponse: dto.NewTokenResponse(
			result.Tokens.AccessToken,
			result.Tokens.RefreshToken,
			result.Tokens.ExpiresAt.Unix(),
			result.User,
		),
	}
	message := "Signup successful!"
	if result.EnrollWarning != nil {
		resp.EnrollmentError = result.EnrollWarning.Error()
		message = "Signup successful, face enrollment failed"
	}
	respond.JSON(w, http.StatusCreated, message, resp)
}

// Login verifies credentials and returns a token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "input_error", "invalid JSON payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "input_error", "email and password are required")
		return
	}

	user, pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := dto.NewTokenResponse(pair.AccessToken, pair.RefreshToken, pair.ExpiresAt.Unix(), user)
	respond.JSON(w, http.StatusOK, "Login successful!", resp)
}

// Me returns the authenticated user's public profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", user.PublicProfile())
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		respond.Error(w, http.StatusBadRequest, "input_error", "refresh token is required")
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "ok", map[string]any{
		"token":            pair.AccessToken,
		"refresh":          pair.RefreshToken,
		"token_expires_in": pair.ExpiresAt.Unix(),
	})
}
