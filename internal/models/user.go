package models

import "time"

// User captures application-facing fields for an authenticated identity.
// OTP state lives on the user row: the secret is provisioned once and kept,
// the last issued code is overwritten on every send.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	OTPSecret    string    `json:"-"`
	LastOTP      string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicProfile strips the user down to the fields returned by the API.
func (u User) PublicProfile() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	}
}
