package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCountsDownloads(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-limited"),
		maxDownloads: intptr(2),
	})
	store.blobs[file.StoragePath] = []byte("content")

	served, data, err := downloads.Serve(context.Background(), "tok-limited", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
	assert.Equal(t, 1, served.ShareDownloads)

	served, _, err = downloads.Serve(context.Background(), "tok-limited", "")
	require.NoError(t, err)
	assert.Equal(t, 2, served.ShareDownloads)

	// The third attempt is rejected at the gate
	_, _, err = downloads.Serve(context.Background(), "tok-limited", "")
	assert.ErrorIs(t, err, ErrDownloadLimitReached)

	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Equal(t, 2, stored.ShareDownloads)
}

func TestServeUnlimitedNeverDrains(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{token: strptr("tok-open"), downloads: 9000})
	store.blobs[file.StoragePath] = []byte("content")

	_, _, err := downloads.Serve(context.Background(), "tok-open", "")
	assert.NoError(t, err)
}

func TestServeWrongPasswordDoesNotCount(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-locked"),
		passwordHash: hashPassword(t, "secret"),
	})
	store.blobs[file.StoragePath] = []byte("content")

	_, _, err := downloads.Serve(context.Background(), "tok-locked", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)

	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Zero(t, stored.ShareDownloads)

	served, data, err := downloads.Serve(context.Background(), "tok-locked", "secret")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
	assert.Equal(t, 1, served.ShareDownloads)
}

func TestServeBlobFailureDoesNotCount(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{token: strptr("tok-broken")})
	store.getErr = errors.New("backend down")

	_, _, err := downloads.Serve(context.Background(), "tok-broken", "")
	require.Error(t, err)

	// A transfer that never produced bytes must not consume a slot
	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Zero(t, stored.ShareDownloads)
}

func TestServeConcurrentLastSlot(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-last"),
		maxDownloads: intptr(1),
	})
	store.blobs[file.StoragePath] = []byte("content")

	const attempts = 4

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = downloads.Serve(context.Background(), "tok-last", "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDownloadLimitReached)
		}
	}

	// The single slot is claimed exactly once no matter the interleaving
	assert.Equal(t, 1, succeeded)

	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Equal(t, 1, stored.ShareDownloads)
}

func TestSignedURLDoesNotCount(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	store.signedErr = nil
	store.signedURL = "https://blobs.example.com/signed"
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	file := seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-url"),
		maxDownloads: intptr(1),
	})

	url, err := downloads.SignedURL(context.Background(), "tok-url", "")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example.com/signed", url)

	// Minting a URL is not a served download
	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Zero(t, stored.ShareDownloads)
}

func TestSignedURLPassesFullGate(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	store.signedErr = nil
	store.signedURL = "https://blobs.example.com/signed"
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-drained"),
		maxDownloads: intptr(1),
		downloads:    1,
	})
	seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-locked"),
		passwordHash: hashPassword(t, "secret"),
	})

	_, err := downloads.SignedURL(context.Background(), "tok-drained", "")
	assert.ErrorIs(t, err, ErrDownloadLimitReached)

	_, err = downloads.SignedURL(context.Background(), "tok-locked", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestSignedURLLocalFallback(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	argon := security.New()
	downloads := NewDownloads(db, store, NewAccess(db, argon))

	seedUser(t, db, "alice")
	seedFile(t, db, "alice", seedOpts{token: strptr("tok-local")})

	url, err := downloads.SignedURL(context.Background(), "tok-local", "")
	require.NoError(t, err)
	assert.Equal(t, "/api/share/tok-local/download", url)

	seedFile(t, db, "alice", seedOpts{
		token:        strptr("tok-local-pw"),
		passwordHash: hashPassword(t, "secret"),
	})

	url, err = downloads.SignedURL(context.Background(), "tok-local-pw", "secret")
	require.NoError(t, err)
	assert.Equal(t, "/api/share/tok-local-pw/download?password=secret", url)
}
