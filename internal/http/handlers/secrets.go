package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/middleware"
	"github.com/hongminglow/passvault-be/internal/models/dto"
)

// AddPassword creates a secret entry owned by the caller.
func (h *Handler) AddPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	var req dto.AddSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "input_error", "invalid JSON payload")
		return
	}

	entry, err := h.svc.AddSecret(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Password saved", entry)
}
