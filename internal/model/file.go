// Package model defines database models
package model

import "time"

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

type File struct {
	ID      string `gorm:"primaryKey" json:"id"`
	OwnerID string `gorm:"index;uniqueIndex:idx_files_owner_sha256,priority:1;not null" json:"-"`

	Filename string `gorm:"not null" json:"name"`

	// Opaque handle into the blob store. Set once at upload time
	StoragePath     string `json:"-"`
	StorageProvider string `json:"-"`

	MimeType string `json:"mime_type"`
	Size     int64  `gorm:"not null" json:"size"`

	// Owner-scoped dedup key. Also exposed so clients can verify integrity
	SHA256 string `gorm:"uniqueIndex:idx_files_owner_sha256,priority:2;not null" json:"sha256"`

	Visibility string `gorm:"default:private" json:"visibility"`
	CategoryID *uint  `json:"category_id"`

	// Share sub-fields. All nil while the file is unshared and cleared
	// together on revoke; ShareToken nil implies the rest are nil and
	// ShareDownloads is 0
	ShareToken        *string    `gorm:"uniqueIndex" json:"-"`
	ShareExpiresAt    *time.Time `json:"-"`
	SharePasswordHash *string    `json:"-"`
	ShareMaxDownloads *int       `json:"-"`
	ShareDownloads    int        `gorm:"not null;default:0" json:"-"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Shared reports whether the file currently carries an active share token.
// Expiry and download limits are evaluated separately by the access gate
func (f *File) Shared() bool {
	return f.ShareToken != nil
}
