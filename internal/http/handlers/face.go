package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/middleware"
	"github.com/hongminglow/passvault-be/internal/models/dto"
)

// uploads are bounded well above any reasonable enrollment photo.
const maxImageBytes = 10 << 20

// ImageUpload stores an enrollment image for the caller and records the face
// artifact. Accepts a multipart "image" part.
func (h *Handler) ImageUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	imageBytes, filename, ok := readImagePart(w, r)
	if !ok {
		return
	}

	artifact, err := h.svc.EnrollFace(r.Context(), userID, imageBytes, filename)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Face enrolled", artifact)
}

// VerifyFaceID compares an uploaded probe image against the caller's
// enrolled artifact and returns the match decision.
func (h *Handler) VerifyFaceID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
		return
	}

	probeBytes, _, ok := readImagePart(w, r)
	if !ok {
		return
	}

	match, dist, err := h.svc.VerifyFace(r.Context(), userID, probeBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Face did not match"
	if match {
		message = "Face verified"
	}
	respond.JSON(w, http.StatusOK, message, dto.VerifyFaceResponse{Match: match, Distance: dist})
}

// readImagePart pulls the image out of the request: either a multipart
// "image" file part or a JSON body with a base64 "image" field. On failure
// it writes the error response and returns ok=false.
func readImagePart(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			respond.Error(w, http.StatusBadRequest, "input_error", "could not read uploaded image")
			return nil, "", false
		}
		return data, header.Filename, true
	}

	// Fall back to a JSON body carrying base64 image data.
	var req struct {
		Image string `json:"image"`
	}
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil || req.Image == "" {
		respond.Error(w, http.StatusBadRequest, "input_error", "an image is required")
		return nil, "", false
	}
	data, decErr := decodeBase64(req.Image)
	if decErr != nil {
		respond.Error(w, http.StatusBadRequest, "input_error", "invalid base64 image data")
		return nil, "", false
	}
	return data, "upload.png", true
}

func decodeBase64(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}
