package models

import "time"

// SecretEntry is one stored credential. Entries belong to exactly one user
// and are never returned to anyone else.
type SecretEntry struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"-"`
	DomainName string    `json:"domain_name"`
	Secret     string    `json:"password"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
