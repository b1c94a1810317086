package service

import (
	"errors"
	"fmt"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/pkg/security"
	"selfvault/file-api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Shares issues and revokes share links on behalf of file owners.
// Owner operations are serialized by nature (one owner acting on their
// own file), so plain row updates are enough here; only the public
// download counter needs stronger guarantees
type Shares struct {
	DB    *gorm.DB
	Argon *security.ArgonHash
}

func NewShares(db *gorm.DB, argon *security.ArgonHash) *Shares {
	return &Shares{DB: db, Argon: argon}
}

type ShareOptions struct {
	// Seconds until expiry; nil means the link is permanent
	ExpiresIn *int64 `json:"expires_in"`

	Password *string `json:"password"`

	// Must be >= 1 when set
	MaxDownloads *int `json:"max_downloads"`
}

type ShareInfo struct {
	Shared       bool       `json:"shared"`
	Token        string     `json:"share_token,omitempty"`
	URL          string     `json:"share_url,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	HasPassword  bool       `json:"has_password"`
	MaxDownloads *int       `json:"max_downloads,omitempty"`
	Downloads    int        `json:"downloads"`
}

func shareURL(token string) string {
	return viper.GetString("share.base_url") + "/share/" + token
}

// Create turns the file public behind a fresh token. Re-sharing an
// already shared file rotates the link: the old token stops resolving
// and the download counter starts over
func (s *Shares) Create(fileID, ownerID string, opts ShareOptions) (*ShareInfo, error) {
	if opts.MaxDownloads != nil && *opts.MaxDownloads < 1 {
		return nil, fmt.Errorf("%w: max downloads must be at least 1", ErrValidation)
	}

	if opts.ExpiresIn != nil && *opts.ExpiresIn < 1 {
		return nil, fmt.Errorf("%w: expiry must be at least 1 second", ErrValidation)
	}

	file, err := ownedFile(s.DB, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	token, err := util.NewShareToken()
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if opts.ExpiresIn != nil {
		t := time.Now().Add(time.Duration(*opts.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	var passwordHash *string
	if opts.Password != nil && *opts.Password != "" {
		encoded, err := s.Argon.GenerateFromPassword(*opts.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash share password, %w", err)
		}

		passwordHash = &encoded
	}

	err = s.DB.
		Model(file).
		Updates(map[string]any{
			"visibility":          model.VisibilityPublic,
			"share_token":         token,
			"share_expires_at":    expiresAt,
			"share_password_hash": passwordHash,
			"share_max_downloads": opts.MaxDownloads,
			"share_downloads":     0,
		}).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to store share record, %w", err)
	}

	zap.L().Info("Share link created",
		zap.String("file_id", fileID),
		zap.Bool("has_password", passwordHash != nil))

	return &ShareInfo{
		Shared:       true,
		Token:        token,
		URL:          shareURL(token),
		ExpiresAt:    expiresAt,
		HasPassword:  passwordHash != nil,
		MaxDownloads: opts.MaxDownloads,
		Downloads:    0,
	}, nil
}

// Revoke clears every share field and reverts the file to private.
// Revoking an unshared file is a no-op success
func (s *Shares) Revoke(fileID, ownerID string) error {
	file, err := ownedFile(s.DB, fileID, ownerID)
	if err != nil {
		return err
	}

	err = s.DB.
		Model(file).
		Updates(map[string]any{
			"visibility":          model.VisibilityPrivate,
			"share_token":         nil,
			"share_expires_at":    nil,
			"share_password_hash": nil,
			"share_max_downloads": nil,
			"share_downloads":     0,
		}).
		Error
	if err != nil {
		return fmt.Errorf("failed to clear share record, %w", err)
	}

	zap.L().Info("Share link revoked", zap.String("file_id", fileID))
	return nil
}

// Info is the owner-only view of the current share state. An unshared
// file yields {Shared: false}, not an error
func (s *Shares) Info(fileID, ownerID string) (*ShareInfo, error) {
	file, err := ownedFile(s.DB, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	if !file.Shared() {
		return &ShareInfo{Shared: false}, nil
	}

	return &ShareInfo{
		Shared:       true,
		Token:        *file.ShareToken,
		URL:          shareURL(*file.ShareToken),
		ExpiresAt:    file.ShareExpiresAt,
		HasPassword:  file.SharePasswordHash != nil,
		MaxDownloads: file.ShareMaxDownloads,
		Downloads:    file.ShareDownloads,
	}, nil
}

// ownedFile resolves a file by id and owner. A wrong owner reads as
// absence so existence never leaks across accounts
func ownedFile(db *gorm.DB, fileID, ownerID string) (*model.File, error) {
	var file model.File

	err := db.
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch file, %w", err)
	}

	return &file, nil
}
