// Package storage defines the blob-store capability consumed by the core.
// The core never knows which physical backend answers these calls
package storage

import (
	"context"
	"errors"
	"time"
)

const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ErrNoSignedURLs is returned by backends that cannot mint standalone
// time-limited URLs
var ErrNoSignedURLs = errors.New("storage backend does not support signed URLs")

// PutResult is the opaque handle persisted on the file record
type PutResult struct {
	Path     string
	Provider string
}

// Store is selected by configuration at startup, never by runtime type
// inspection
type Store interface {
	// Put writes blob data under a fresh owner-scoped key
	Put(ctx context.Context, ownerID, filename string, data []byte, mimeType string) (*PutResult, error)

	// Get reads the full blob back
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the blob. Deleting an absent blob is not an error
	Delete(ctx context.Context, path string) error

	// SignedURL mints a time-limited direct-access URL for the blob
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)

	// Exists reports whether the blob is present
	Exists(ctx context.Context, path string) (bool, error)

	// Provider returns the backend identifier stored on file records
	Provider() string
}
