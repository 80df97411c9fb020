package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	inventoryapp "github.com/consignmentgenie/backend/internal/application/inventory"
)

// Ensure LocalPhotoStorage implements PhotoStorage
var _ inventoryapp.PhotoStorage = (*LocalPhotoStorage)(nil)

// LocalPhotoStorage stores photo blobs on the local filesystem. Intended for
// development; production deployments use S3.
type LocalPhotoStorage struct {
	dir           string
	publicBaseURL string
}

// NewLocalPhotoStorage creates a new LocalPhotoStorage rooted at dir.
// Files are served under publicBaseURL (default "/uploads").
func NewLocalPhotoStorage(dir, publicBaseURL string) (*LocalPhotoStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/uploads"
	}
	return &LocalPhotoStorage{
		dir:           dir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Upload stores a photo blob under the given key
func (s *LocalPhotoStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	path, err := s.pathFor(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create photo directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write photo: %w", err)
	}
	return nil
}

// DeleteObject removes a photo blob. Deleting a missing blob is not an error.
func (s *LocalPhotoStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	path, err := s.pathFor(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// PublicURL returns the browsable URL for a stored key
func (s *LocalPhotoStorage) PublicURL(storageKey string) string {
	return s.publicBaseURL + "/" + storageKey
}

// StorageKey extracts the storage key from a public URL
func (s *LocalPhotoStorage) StorageKey(url string) (string, error) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q is not served from this store", url)
	}
	return strings.TrimPrefix(url, prefix), nil
}

// Dir returns the root directory blobs are written to
func (s *LocalPhotoStorage) Dir() string {
	return s.dir
}

// pathFor resolves a storage key inside the root directory and rejects keys
// that would escape it
func (s *LocalPhotoStorage) pathFor(storageKey string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(storageKey))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return path, nil
}
