package models

import "time"

// FaceArtifact references a user's enrolled face image on the media store.
// One per user; re-enrollment replaces it.
type FaceArtifact struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
