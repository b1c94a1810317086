package service

import (
	"errors"
	"fmt"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/pkg/security"

	"gorm.io/gorm"
)

// Access is the gate in front of every unauthenticated share operation.
// Checks run in a fixed order: existence, then expiry, then download
// limit, then password. The order is part of the contract; it controls
// what a caller probing random tokens can learn
type Access struct {
	DB    *gorm.DB
	Argon *security.ArgonHash
}

func NewAccess(db *gorm.DB, argon *security.ArgonHash) *Access {
	return &Access{DB: db, Argon: argon}
}

// Resolve maps a token to its file and applies the existence, expiry and
// download-limit checks. An expired share is reported, never cleared;
// it stays in that state until the owner revokes or re-shares
func (a *Access) Resolve(token string) (*model.File, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var file model.File

	err := a.DB.
		Where("share_token = ?", token).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to resolve share token, %w", err)
	}

	if file.ShareExpiresAt != nil && file.ShareExpiresAt.Before(time.Now()) {
		return nil, ErrExpired
	}

	if file.ShareMaxDownloads != nil && file.ShareDownloads >= *file.ShareMaxDownloads {
		return nil, ErrDownloadLimitReached
	}

	return &file, nil
}

// CheckPassword applies the credential check for operations that bypass
// the password wall (download, signed URL). Metadata views skip this and
// only report whether a password exists
func (a *Access) CheckPassword(file *model.File, supplied string) error {
	if file.SharePasswordHash == nil {
		return nil
	}

	ok, err := a.Argon.VerifyPasswd(supplied, *file.SharePasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify share password, %w", err)
	}

	if !ok {
		return ErrBadPassword
	}

	return nil
}
