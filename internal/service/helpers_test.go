package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/pkg/security"
	"selfvault/file-api/pkg/util"
	"selfvault/file-api/storage"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	zap.ReplaceGlobals(zap.NewNop())

	viper.Set("quota.default_limit", int64(1)<<30)
	viper.Set("share.base_url", "http://localhost:5173")
	viper.Set("share.signed_url_ttl", 3600)

	m.Run()
}

// newTestDB opens a throwaway sqlite database. File-backed rather than
// in-memory so concurrent connections see the same data
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.UserSettings{}, model.Category{}, model.File{}))
	return db
}

// fakeStore is an in-memory storage.Store that records every mutation
type fakeStore struct {
	blobs map[string][]byte

	puts    int
	deletes int

	getErr    error
	signedURL string
	signedErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blobs:     map[string][]byte{},
		signedErr: storage.ErrNoSignedURLs,
	}
}

func (f *fakeStore) Put(ctx context.Context, ownerID, filename string, data []byte, mimeType string) (*storage.PutResult, error) {
	f.puts++
	path := ownerID + "/" + uuid.NewString() + "/" + filename
	f.blobs[path] = data

	return &storage.PutResult{Path: path, Provider: "fake"}, nil
}

func (f *fakeStore) Get(ctx context.Context, path string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	data, ok := f.blobs[path]
	if !ok {
		return nil, errors.New("blob not found")
	}

	return data, nil
}

func (f *fakeStore) Delete(ctx context.Context, path string) error {
	f.deletes++
	delete(f.blobs, path)
	return nil
}

func (f *fakeStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if f.signedErr != nil {
		return "", f.signedErr
	}

	return f.signedURL, nil
}

func (f *fakeStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := f.blobs[path]
	return ok, nil
}

func (f *fakeStore) Provider() string {
	return "fake"
}

func seedUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()

	user := &model.User{
		ID:        id,
		Email:     id + "@example.com",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

type seedOpts struct {
	token        *string
	expiresAt    *time.Time
	passwordHash *string
	maxDownloads *int
	downloads    int
	visibility   string
	size         int64
	createdAt    int64
}

func seedFile(t *testing.T, db *gorm.DB, ownerID string, opts seedOpts) *model.File {
	t.Helper()

	visibility := opts.visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
		if opts.token != nil {
			visibility = model.VisibilityPublic
		}
	}

	size := opts.size
	if size == 0 {
		size = 42
	}

	createdAt := opts.createdAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	id := uuid.NewString()
	file := &model.File{
		ID:                id,
		OwnerID:           ownerID,
		Filename:          id + ".bin",
		StoragePath:       ownerID + "/" + id,
		StorageProvider:   "fake",
		MimeType:          "application/octet-stream",
		Size:              size,
		SHA256:            util.HashBytes([]byte(id)),
		Visibility:        visibility,
		ShareToken:        opts.token,
		ShareExpiresAt:    opts.expiresAt,
		SharePasswordHash: opts.passwordHash,
		ShareMaxDownloads: opts.maxDownloads,
		ShareDownloads:    opts.downloads,
		CreatedAt:         createdAt,
	}
	require.NoError(t, db.Create(file).Error)

	return file
}

func hashPassword(t *testing.T, password string) *string {
	t.Helper()

	encoded, err := security.New().GenerateFromPassword(password)
	require.NoError(t, err)

	return &encoded
}

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }

func i64ptr(n int64) *int64 { return &n }

func timeptr(t time.Time) *time.Time { return &t }
