package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytes(t *testing.T) {
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashBytes([]byte("abc")))

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashBytes(nil))
}

func TestNewShareToken(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		token, err := NewShareToken()
		require.NoError(t, err)

		// 32 bytes in unpadded base64url
		assert.Len(t, token, 43)
		assert.NotRegexp(t, `[+/=]`, token)

		assert.False(t, seen[token])
		seen[token] = true
	}
}
