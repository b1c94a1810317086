package service

import (
	"fmt"

	"selfvault/file-api/internal/model"

	"gorm.io/gorm"
)

// Quota sums a user's stored bytes against their configured limit. The
// check runs before any blob is written so a rejection never leaves
// orphaned storage. Two in-flight uploads from the same user can still
// race past the limit by one upload's size; that is accepted behavior
type Quota struct {
	DB       *gorm.DB
	Settings *Settings
}

func NewQuota(db *gorm.DB, settings *Settings) *Quota {
	return &Quota{DB: db, Settings: settings}
}

// Usage returns the byte sum over all of the owner's stored files
func (q *Quota) Usage(ownerID string) (int64, error) {
	var used int64

	err := q.DB.
		Model(model.File{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&used).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum stored bytes, %w", err)
	}

	return used, nil
}

// Check fails with ErrQuotaExceeded when storing incoming more bytes
// would push the owner past their limit
func (q *Quota) Check(ownerID string, incoming int64) error {
	settings, err := q.Settings.Get(ownerID)
	if err != nil {
		return err
	}

	used, err := q.Usage(ownerID)
	if err != nil {
		return err
	}

	if used+incoming > settings.StorageLimit {
		return ErrQuotaExceeded
	}

	return nil
}
