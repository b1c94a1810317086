// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the lowercase hex SHA-256 digest of data. Used as the
// owner-scoped dedup key and exposed to owners for integrity checks
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
