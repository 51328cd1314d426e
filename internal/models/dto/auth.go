package dto

import "github.com/hongminglow/passvault-be/internal/models"

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	// FaceImage is an optional base64-encoded enrollment image.
	FaceImage string `json:"face_image,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenResponse mirrors the login/signup payload: access token, refresh
// token, access expiry (unix seconds) and the public user fields.
type TokenResponse struct {
	Token          string         `json:"token"`
	Refresh        string         `json:"refresh"`
	TokenExpiresIn int64          `json:"token_expires_in"`
	User           map[string]any `json:"user"`
}

// SignupResponse adds the enrollment outcome: when a face image was sent but
// could not be enrolled, the account is still created and the failure is
// reported here instead of failing the whole signup.
type SignupResponse struct {
	TokenResponse
	EnrollmentError string `json:"enrollment_error,omitempty"`
}

func NewTokenResponse(token, refresh string, expiresAt int64, user models.User) TokenResponse {
	return TokenResponse{
		Token:          token,
		Refresh:        refresh,
		TokenExpiresIn: expiresAt,
		User:           user.PublicProfile(),
	}
}
