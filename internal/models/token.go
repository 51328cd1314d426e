package models

import "time"

// RefreshToken is a server-side session credential; access tokens are minted
// against it until it expires or is revoked.
type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}
