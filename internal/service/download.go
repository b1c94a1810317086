package service

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"time"

	"selfvault/file-api/internal/model"
	"selfvault/file-api/storage"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func signedURLTTL() int {
	return viper.GetInt("share.signed_url_ttl")
}

// Downloads serves blobs for valid share tokens and owns the download
// counter. The counter is the one piece of share state mutated by
// unauthenticated traffic, so its increment is a single conditional
// UPDATE; two concurrent downloads racing for the last slot can't both
// take it
type Downloads struct {
	DB     *gorm.DB
	Store  storage.Store
	Access *Access
}

func NewDownloads(db *gorm.DB, store storage.Store, access *Access) *Downloads {
	return &Downloads{DB: db, Store: store, Access: access}
}

// Serve runs the full gate, fetches the blob and then claims a download
// slot. The fetch happens first: a transfer that never completes must
// not consume a slot, and a failed conditional update afterwards reads
// as the limit having been reached by a concurrent download
func (d *Downloads) Serve(ctx context.Context, token, password string) (*model.File, []byte, error) {
	file, err := d.Access.Resolve(token)
	if err != nil {
		return nil, nil, err
	}

	if err := d.Access.CheckPassword(file, password); err != nil {
		return nil, nil, err
	}

	data, err := d.Store.Get(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch blob, %w", err)
	}

	count, err := d.record(file, token)
	if err != nil {
		return nil, nil, err
	}

	file.ShareDownloads = count
	return file, data, nil
}

// SignedURL passes the same gate as Serve but does not consume a
// download slot; minting a URL is not a served download
func (d *Downloads) SignedURL(ctx context.Context, token, password string) (string, error) {
	file, err := d.Access.Resolve(token)
	if err != nil {
		return "", err
	}

	if err := d.Access.CheckPassword(file, password); err != nil {
		return "", err
	}

	ttl := time.Duration(signedURLTTL()) * time.Second

	url, err := d.Store.SignedURL(ctx, file.StoragePath, ttl)
	if err != nil {
		// Backends without standalone URLs fall back to the gated
		// download route, which re-checks access on every hit
		if errors.Is(err, storage.ErrNoSignedURLs) {
			return shareDownloadURL(token, password), nil
		}

		return "", fmt.Errorf("failed to mint signed URL, %w", err)
	}

	return url, nil
}

func shareDownloadURL(token, password string) string {
	u := "/api/share/" + neturl.PathEscape(token) + "/download"
	if password != "" {
		u += "?password=" + neturl.QueryEscape(password)
	}

	return u
}

// record claims one download slot with a conditional increment. The
// share_token predicate also guards against a revoke or rotate that
// landed between the gate and the claim
func (d *Downloads) record(file *model.File, token string) (int, error) {
	res := d.DB.
		Model(model.File{}).
		Where("id = ? AND share_token = ? AND (share_max_downloads IS NULL OR share_downloads < share_max_downloads)",
			file.ID, token).
		UpdateColumn("share_downloads", gorm.Expr("share_downloads + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to record download, %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return 0, ErrDownloadLimitReached
	}

	zap.L().Debug("Shared file downloaded", zap.String("file_id", file.ID))
	return file.ShareDownloads + 1, nil
}
