package handlers

import (
	"net/http"

	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/middleware"
)

// SendOTPEmail provisions the caller's OTP secret if needed, issues a code
// for the current window, and delivers it by email.
func (h *Handler) SendOTPEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	if err := h.svc.SendOTPEmail(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "OTP sent to your email", nil)
}

// VerifyOTP validates the submitted code and, on success, returns the
// caller's secret entries.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	code := r.URL.Query().Get("otp")
	entries, err := h.svc.VerifySecretAccess(r.Context(), userID, code)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "OTP verified", map[string]any{"passwords": entries})
}
