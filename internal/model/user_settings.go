package model

type UserSettings struct {
	OwnerID string `gorm:"primaryKey" json:"-"`

	// Byte count, never a float. Zero means "use the configured default",
	// resolved when the row is lazily created
	StorageLimit int64 `gorm:"not null" json:"storage_limit"`

	Preferences JSONMap `json:"preferences"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
