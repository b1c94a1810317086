package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	put, err := local.Put(ctx, "alice", "report.pdf", []byte("content"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, put.Provider)

	exists, err := local.Exists(ctx, put.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := local.Get(ctx, put.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	require.NoError(t, local.Delete(ctx, put.Path))

	exists, err = local.Exists(ctx, put.Path)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent blob is not an error
	assert.NoError(t, local.Delete(ctx, put.Path))
}

func TestLocalKeysAreUnique(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	first, err := local.Put(ctx, "alice", "same.txt", []byte("a"), "text/plain")
	require.NoError(t, err)

	second, err := local.Put(ctx, "alice", "same.txt", []byte("b"), "text/plain")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestLocalSanitizesFilenames(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	put, err := local.Put(context.Background(), "alice", "../../etc/passwd", []byte("x"), "text/plain")
	require.NoError(t, err)

	assert.NotContains(t, put.Path, "../")

	data, err := local.Get(context.Background(), put.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestLocalRejectsTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = local.Get(context.Background(), "../outside")
	assert.Error(t, err)
}

func TestLocalHasNoSignedURLs(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = local.SignedURL(context.Background(), "alice/key", time.Hour)
	assert.ErrorIs(t, err, ErrNoSignedURLs)
}
