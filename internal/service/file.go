package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Files covers the owner-scoped file operations. Every lookup is keyed
// by (id, owner) so files belonging to someone else read as absent
type Files struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewFiles(db *gorm.DB, store storage.Store) *Files {
	return &Files{DB: db, Store: store}
}

func (f *Files) Get(fileID, ownerID string) (*model.File, error) {
	return ownedFile(f.DB, fileID, ownerID)
}

type ListOptions struct {
	Page       int
	Limit      int
	CategoryID *uint
	Search     string
}

type FilePage struct {
	Files      []model.File `json:"files"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int64        `json:"total_pages"`
}

func (f *Files) List(ownerID string, opts ListOptions) (*FilePage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	owned := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("owner_id = ?", ownerID)

		if opts.CategoryID != nil {
			tx = tx.Where("category_id = ?", *opts.CategoryID)
		}

		if opts.Search != "" {
			tx = tx.Where("LOWER(filename) LIKE ?", "%"+strings.ToLower(opts.Search)+"%")
		}

		return tx
	}

	var total int64
	if err := f.DB.Model(model.File{}).Scopes(owned).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count files, %w", err)
	}

	var files []model.File

	err := f.DB.
		Scopes(owned).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&files).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files, %w", err)
	}

	return &FilePage{
		Files:      files,
		Total:      total,
		Page:       page,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

type FilePatch struct {
	Filename   *string `json:"name"`
	Visibility *string `json:"visibility"`
	CategoryID *uint   `json:"category_id"`

	// JSON null and an absent key both decode to a nil pointer, so
	// clearing the category is its own flag
	ClearCategory bool `json:"clear_category"`
}

// Update edits display metadata. Visibility changes never touch the
// share fields; revoking a link is an explicit separate operation
func (f *Files) Update(fileID, ownerID string, patch FilePatch) (*model.File, error) {
	file, err := ownedFile(f.DB, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if patch.Filename != nil {
		if *patch.Filename == "" {
			return nil, fmt.Errorf("%w: filename can't be empty", ErrValidation)
		}

		updates["filename"] = *patch.Filename
	}

	if patch.Visibility != nil {
		switch *patch.Visibility {
		case model.VisibilityPrivate, model.VisibilityPublic:
			updates["visibility"] = *patch.Visibility
		default:
			return nil, fmt.Errorf("%w: unknown visibility %q", ErrValidation, *patch.Visibility)
		}
	}

	switch {
	case patch.ClearCategory:
		updates["category_id"] = nil
	case patch.CategoryID != nil:
		var n int64

		err := f.DB.
			Model(model.Category{}).
			Where("id = ? AND owner_id = ?", *patch.CategoryID, ownerID).
			Count(&n).
			Error
		if err != nil {
			return nil, fmt.Errorf("failed to check category, %w", err)
		}

		if n == 0 {
			return nil, ErrNotFound
		}

		updates["category_id"] = *patch.CategoryID
	}

	if len(updates) == 0 {
		return file, nil
	}

	updates["updated_at"] = time.Now().Unix()

	if err := f.DB.Model(file).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update file, %w", err)
	}

	return file, nil
}

// Delete removes the blob first, then the record. A blob-store failure
// aborts the whole operation so the record keeps pointing at real bytes
func (f *Files) Delete(ctx context.Context, fileID, ownerID string) error {
	file, err := ownedFile(f.DB, fileID, ownerID)
	if err != nil {
		return err
	}

	if err := f.Store.Delete(ctx, file.StoragePath); err != nil {
		return fmt.Errorf("failed to delete blob, %w", err)
	}

	if err := f.DB.Delete(file).Error; err != nil {
		return fmt.Errorf("failed to delete file record, %w", err)
	}

	zap.L().Info("File deleted", zap.String("file_id", fileID))
	return nil
}

// Download returns the full blob for the owner
func (f *Files) Download(ctx context.Context, fileID, ownerID string) (*model.File, []byte, error) {
	file, err := ownedFile(f.DB, fileID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	data, err := f.Store.Get(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch blob, %w", err)
	}

	return file, data, nil
}

// SignedURL mints a time-limited direct URL for the owner
func (f *Files) SignedURL(ctx context.Context, fileID, ownerID string) (string, error) {
	file, err := ownedFile(f.DB, fileID, ownerID)
	if err != nil {
		return "", err
	}

	ttl := time.Duration(signedURLTTL()) * time.Second

	url, err := f.Store.SignedURL(ctx, file.StoragePath, ttl)
	if err != nil {
		// Local blobs have no standalone URLs; the authenticated
		// download route is the fallback
		if errors.Is(err, storage.ErrNoSignedURLs) {
			return "/api/files/" + file.ID + "/download", nil
		}

		return "", fmt.Errorf("failed to mint signed URL, %w", err)
	}

	return url, nil
}
