package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	a := New()

	encoded, err := a.GenerateFromPassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")
	assert.NotContains(t, encoded, "hunter2")

	ok, err := a.VerifyPasswd("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaltsDiffer(t *testing.T) {
	a := New()

	first, err := a.GenerateFromPassword("same")
	require.NoError(t, err)

	second, err := a.GenerateFromPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	a := New()

	_, err := a.VerifyPasswd("x", "not-a-phc-string")
	assert.Error(t, err)
}
