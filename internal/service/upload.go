package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/pkg/util"
	"selfvault/file-api/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Uploader runs the upload pipeline: quota check, content hash, dedup,
// blob write, record insert. The quota check always comes before the
// blob write so a rejected upload never leaves bytes behind
type Uploader struct {
	DB    *gorm.DB
	Store storage.Store
	Quota *Quota
}

func NewUploader(db *gorm.DB, store storage.Store, quota *Quota) *Uploader {
	return &Uploader{DB: db, Store: store, Quota: quota}
}

type UploadRequest struct {
	Filename   string
	MimeType   string
	CategoryID *uint
	Visibility string
}

func (u *Uploader) Upload(ctx context.Context, ownerID string, data []byte, req UploadRequest) (*model.File, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	visibility := req.Visibility
	switch visibility {
	case "":
		visibility = model.VisibilityPrivate
	case model.VisibilityPrivate, model.VisibilityPublic:
	default:
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrValidation, req.Visibility)
	}

	if req.CategoryID != nil {
		var n int64

		err := u.DB.
			Model(model.Category{}).
			Where("id = ? AND owner_id = ?", *req.CategoryID, ownerID).
			Count(&n).
			Error
		if err != nil {
			return nil, fmt.Errorf("failed to check category, %w", err)
		}

		if n == 0 {
			return nil, ErrNotFound
		}
	}

	if err := u.Quota.Check(ownerID, int64(len(data))); err != nil {
		return nil, err
	}

	sha256 := util.HashBytes(data)

	// Cheap dedup probe before touching the blob store. The unique index
	// on (owner_id, sha256) still backstops concurrent duplicates
	var n int64

	err := u.DB.
		Model(model.File{}).
		Where("owner_id = ? AND sha256 = ?", ownerID, sha256).
		Count(&n).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate content, %w", err)
	}

	if n > 0 {
		return nil, ErrDuplicateContent
	}

	put, err := u.Store.Put(ctx, ownerID, req.Filename, data, req.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store blob, %w", err)
	}

	file := &model.File{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Filename:        req.Filename,
		StoragePath:     put.Path,
		StorageProvider: put.Provider,
		MimeType:        req.MimeType,
		Size:            int64(len(data)),
		SHA256:          sha256,
		Visibility:      visibility,
		CategoryID:      req.CategoryID,
		CreatedAt:       time.Now().Unix(),
	}

	err = u.DB.Create(file).Error
	if err != nil {
		// Don't leave the blob orphaned when the record can't be saved
		if delErr := u.Store.Delete(context.Background(), put.Path); delErr != nil {
			zap.L().Error("Failed to cleanup blob after failed upload",
				zap.String("path", put.Path), zap.Error(delErr))
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateContent
		}

		return nil, fmt.Errorf("failed to save file record, %w", err)
	}

	zap.L().Info("File uploaded",
		zap.String("file_id", file.ID),
		zap.Int64("size", file.Size))

	return file, nil
}
