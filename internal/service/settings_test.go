package service

import (
	"testing"

	"selfvault/file-api/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsLazyCreate(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettings(db)

	seedUser(t, db, "alice")

	got, err := settings.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, viper.GetInt64("quota.default_limit"), got.StorageLimit)

	// A second read hits the same row
	again, err := settings.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, got.OwnerID, again.OwnerID)

	var n int64
	require.NoError(t, db.Model(model.UserSettings{}).Where("owner_id = ?", "alice").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSettingsUpdate(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettings(db)

	seedUser(t, db, "alice")

	_, err := settings.Update("alice", SettingsPatch{StorageLimit: i64ptr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = settings.Update("alice", SettingsPatch{
		StorageLimit: i64ptr(1 << 20),
		Preferences:  model.JSONMap{"theme": "dark"},
	})
	require.NoError(t, err)

	stored, err := settings.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<20, stored.StorageLimit)
	assert.Equal(t, "dark", stored.Preferences["theme"])
}

func TestQuotaUsage(t *testing.T) {
	db := newTestDB(t)
	quota := NewQuota(db, NewSettings(db))

	seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	used, err := quota.Usage("alice")
	require.NoError(t, err)
	assert.Zero(t, used)

	seedFile(t, db, "alice", seedOpts{size: 30})
	seedFile(t, db, "alice", seedOpts{size: 70})
	seedFile(t, db, "bob", seedOpts{size: 999})

	used, err = quota.Usage("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), used)
}
