package service

import (
	"errors"
	"fmt"
	"time"

	"selfvault/file-api/internal/model"

	"gorm.io/gorm"
)

// Categories is plain owner-scoped CRUD. Names are unique per owner;
// deleting a category orphans its files to "no category"
type Categories struct {
	DB *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{DB: db}
}

type CategoryWithCount struct {
	model.Category
	FileCount int64 `json:"file_count"`
}

func (c *Categories) List(ownerID string) ([]CategoryWithCount, error) {
	var categories []CategoryWithCount

	err := c.DB.
		Model(model.Category{}).
		Select("categories.*, COUNT(files.id) AS file_count").
		Joins("LEFT JOIN files ON files.category_id = categories.id").
		Where("categories.owner_id = ?", ownerID).
		Group("categories.id").
		Order("categories.name ASC").
		Find(&categories).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories, %w", err)
	}

	return categories, nil
}

func (c *Categories) Create(ownerID, name, color string) (*model.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		OwnerID:   ownerID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().Unix(),
	}

	err := c.DB.Create(category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category name already exists", ErrValidation)
		}

		return nil, fmt.Errorf("failed to create category, %w", err)
	}

	return category, nil
}

func (c *Categories) Update(categoryID uint, ownerID string, name, color *string) (*model.Category, error) {
	category, err := c.owned(categoryID, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: category name can't be empty", ErrValidation)
		}

		updates["name"] = *name
	}

	if color != nil {
		updates["color"] = *color
	}

	if len(updates) == 0 {
		return category, nil
	}

	err = c.DB.Model(category).Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category name already exists", ErrValidation)
		}

		return nil, fmt.Errorf("failed to update category, %w", err)
	}

	return category, nil
}

// Delete clears the category reference on any files first; the files
// themselves survive
func (c *Categories) Delete(categoryID uint, ownerID string) error {
	category, err := c.owned(categoryID, ownerID)
	if err != nil {
		return err
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(model.File{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).
			Error
		if err != nil {
			return fmt.Errorf("failed to detach files from category, %w", err)
		}

		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("failed to delete category, %w", err)
		}

		return nil
	})
}

func (c *Categories) owned(categoryID uint, ownerID string) (*model.Category, error) {
	var category model.Category

	err := c.DB.
		Where("id = ? AND owner_id = ?", categoryID, ownerID).
		First(&category).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch category, %w", err)
	}

	return &category, nil
}
