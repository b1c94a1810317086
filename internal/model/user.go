package model

// User mirrors the identity provider's verified subject. Records are
// created lazily on the first authenticated request
type User struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Username *string `json:"username"`

	Files    []File       `gorm:"foreignKey:OwnerID" json:"-"`
	Settings UserSettings `gorm:"foreignKey:OwnerID" json:"-"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
