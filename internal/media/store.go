// Package media stores uploaded images on local disk. Stored paths are what
// face artifacts reference; the single-node deployment keeps media next to
// the process.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store writes and reads image files under a base directory.
type Store struct {
	baseDir string
}

// NewStore creates the base directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes data under images/ with a timestamped, lowercased filename and
// returns the path relative to the base directory. A random suffix keeps
// same-second uploads of the same file distinct.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	name := strings.ToLower(filepath.Base(originalName))
	if name == "" || name == "." {
		name = "upload"
	}
	stamp := time.Now().Format("20060102150405")
	rel := filepath.Join("images", fmt.Sprintf("%s_%s_%s", stamp, uuid.NewString()[:8], name))

	if err := os.WriteFile(filepath.Join(s.baseDir, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return rel, nil
}

// Read loads a previously stored file by its relative path.
func (s *Store) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, rel))
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}
	return data, nil
}
