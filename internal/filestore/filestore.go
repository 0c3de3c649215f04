// Package filestore keeps photo blobs under the application data directory,
// mirroring how the records reference them: by relative path only.
package filestore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

const photosDir = "photos"

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrInvalidPath   = errors.New("invalid photo path")
)

// Store reads and writes photo blobs below root. Paths handed out and
// accepted are always relative to root.
type Store struct {
	root string
	log  *slog.Logger
}

func New(root string, log *slog.Logger) *Store {
	return &Store{
		root: root,
		log:  log.With("component", "filestore"),
	}
}

// EnsureDirectory makes sure the photos directory exists. An already
// existing directory is success; any other failure is logged and swallowed,
// the subsequent write will surface it anyway.
func (s *Store) EnsureDirectory() {
	if err := os.MkdirAll(filepath.Join(s.root, photosDir), 0o750); err != nil {
		s.log.Warn("could not ensure photos directory", "error", err)
	}
}

// WritePhoto stores raw JPEG bytes under a generated unique filename and
// returns the relative path to reference from a record.
func (s *Store) WritePhoto(data []byte) (string, error) {
	s.EnsureDirectory()

	rel := s.uniquePath()
	if err := os.WriteFile(filepath.Join(s.root, rel), data, 0o640); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return rel, nil
}

// ReadPhoto loads the blob at the relative path and re-encodes it as an
// inline displayable data URI. A missing blob yields ErrPhotoNotFound so
// callers can degrade to a placeholder.
func (s *Store) ReadPhoto(rel string) (string, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrPhotoNotFound, rel)
	}
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadPhotoRaw returns the blob bytes without re-encoding, for exporting.
func (s *Store) ReadPhotoRaw(rel string) ([]byte, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPhotoNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return data, nil
}

// RemovePhoto deletes the blob at the relative path. Removing an already
// absent blob is success.
func (s *Store) RemovePhoto(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

// uniquePath generates photos/delivery_<millisecond-timestamp>.jpg, bumping
// the timestamp when two writes land in the same millisecond.
func (s *Store) uniquePath() string {
	millis := time.Now().UnixMilli()
	for {
		rel := filepath.Join(photosDir, fmt.Sprintf("delivery_%d.jpg", millis))
		if _, err := os.Stat(filepath.Join(s.root, rel)); errors.Is(err, os.ErrNotExist) {
			return rel
		}
		millis++
	}
}

// resolve maps a relative photo path to its absolute location, rejecting
// anything that would escape the store root.
func (s *Store) resolve(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, clean), nil
}
