package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const shareTokenBytes = 32 // 256 bits of entropy

// NewShareToken returns a URL-safe token suitable for unauthenticated
// share links. Always sourced from crypto/rand, never math/rand
func NewShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes, %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
