package model

const DefaultCategoryColor = "#6366f1"

type Category struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID string `gorm:"uniqueIndex:idx_categories_owner_name,priority:1;not null" json:"-"`
	Name    string `gorm:"uniqueIndex:idx_categories_owner_name,priority:2;not null" json:"name"`
	Color   string `json:"color"`

	// Deleting a category orphans its files to "no category"
	Files []File `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
