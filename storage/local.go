package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Local stores blobs on the host filesystem. It cannot mint signed
// URLs since plain files can't carry an expiry
type Local struct {
	basePath string
}

func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &Local{basePath: basePath}, nil
}

func (l *Local) Put(ctx context.Context, ownerID, filename string, data []byte, mimeType string) (*PutResult, error) {
	key, err := objectKey(ownerID, filename)
	if err != nil {
		return nil, err
	}

	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory, %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write blob, %w", err)
	}

	return &PutResult{Path: key, Provider: ProviderLocal}, nil
}

func (l *Local) Get(ctx context.Context, path string) ([]byte, error) {
	fullPath, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(fullPath)
}

func (l *Local) Delete(ctx context.Context, path string) error {
	fullPath, err := l.resolve(path)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (l *Local) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	// Local files sit behind the API; there is no standalone URL to mint.
	// Callers fall back to the gated download route instead
	return "", ErrNoSignedURLs
}

func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	fullPath, err := l.resolve(path)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (l *Local) Provider() string {
	return ProviderLocal
}

// resolve maps a storage key onto the base directory and rejects keys
// escaping it
func (l *Local) resolve(key string) (string, error) {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(fullPath, filepath.Clean(l.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage path %q", key)
	}

	return fullPath, nil
}

// objectKey builds an owner-scoped, date-partitioned key. The nanoid
// suffix keeps byte-identical names from colliding across uploads
func objectKey(ownerID, filename string) (string, error) {
	suffix, err := gonanoid.New(10)
	if err != nil {
		return "", fmt.Errorf("failed to generate object key, %w", err)
	}

	safe := unsafeChars.ReplaceAllString(filename, "_")
	if len(safe) > 128 {
		safe = safe[:128]
	}

	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)

	now := time.Now().UTC()

	return fmt.Sprintf("%s/%04d/%02d/%02d/%s_%s%s",
		ownerID, now.Year(), now.Month(), now.Day(), base, suffix, ext), nil
}
