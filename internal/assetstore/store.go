// Package assetstore manages scratch-lifetime media assets. Assets live in
// a single flat directory, named {uuid}.{ext}; existence is a direct path
// probe and nothing mutates an asset after it is written.
package assetstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced asset id has no file behind it.
var ErrNotFound = errors.New("asset not found")

// Known asset extensions.
const (
	ExtVideo    = "mp4"
	ExtAudio    = "mp3"
	ExtSubtitle = "srt"
	ExtImage    = "jpg"
)

// Store is a flat scratch directory keyed by generated unique ids.
type Store struct {
	dir string
}

// New creates the scratch directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string { return s.dir }

// NewID generates a fresh asset identifier.
func (s *Store) NewID() string { return uuid.NewString() }

// Path returns the file path an asset id maps to, whether or not it exists.
func (s *Store) Path(id, ext string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s", id, strings.TrimPrefix(ext, ".")))
}

// FinalPath returns the path used for a finished render, kept distinct
// from the input video asset so inputs survive for debugging.
func (s *Store) FinalPath(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_final.%s", id, ExtVideo))
}

// SourceImagePath returns the path for a downloaded fallback source image.
func (s *Store) SourceImagePath(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_source.%s", id, ExtImage))
}

// Resolve probes for an existing asset and returns its path.
func (s *Store) Resolve(id, ext string) (string, error) {
	p := s.Path(id, ext)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s.%s", ErrNotFound, id, ext)
		}
		return "", fmt.Errorf("probe asset %s: %w", p, err)
	}
	return p, nil
}

// Write persists asset bytes under a fresh name and returns the new id.
func (s *Store) Write(ext string, data []byte) (string, error) {
	id := s.NewID()
	if err := os.WriteFile(s.Path(id, ext), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return id, nil
}
