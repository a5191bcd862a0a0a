// Package media holds the profile-image store collaborator: binary in,
// public URL out. The default implementation writes to local disk.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// MaxImageSize is the upload cap (5 MB).
const MaxImageSize = 5 * 1024 * 1024

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidationError reports an unacceptable upload (type or size).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Store persists an image and returns its public URL.
type Store interface {
	Store(ctx context.Context, content []byte, contentType, ownerID string) (string, error)
}

// DiskStore writes images under a local directory served at baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

// Store validates and writes the image. One image per owner: a new
// upload replaces the previous one.
func (s *DiskStore) Store(_ context.Context, content []byte, contentType, ownerID string) (string, error) {
	ext, ok := extByType[contentType]
	if !ok {
		return "", &ValidationError{Reason: "unsupported image type, use jpeg, png, gif or webp"}
	}
	if len(content) == 0 {
		return "", &ValidationError{Reason: "empty image"}
	}
	if len(content) > MaxImageSize {
		return "", &ValidationError{Reason: "image exceeds the 5MB limit"}
	}

	name := ownerID + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.baseURL + "/" + name, nil
}
