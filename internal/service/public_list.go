package service

import (
	"fmt"
	"time"

	"selfvault/file-api/internal/model"

	"gorm.io/gorm"
)

const maxPageSize = 100

// PublicList derives the subset of shares safe to list anonymously.
// Password-protected shares never appear here: a password implies
// "findable only via direct link"
type PublicList struct {
	DB *gorm.DB
}

func NewPublicList(db *gorm.DB) *PublicList {
	return &PublicList{DB: db}
}

// PublicFileInfo is what an anonymous visitor may see about a share
type PublicFileInfo struct {
	ID            string `json:"id"`
	Filename      string `json:"name"`
	MimeType      string `json:"mime_type"`
	Size          int64  `json:"size"`
	CreatedAt     int64  `json:"created_at"`
	HasPassword   bool   `json:"has_password"`
	OwnerUsername string `json:"owner_username,omitempty"`
}

type PublicPage struct {
	Files      []PublicFileInfo `json:"files"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int64            `json:"total_pages"`
}

// List returns public, unexpired, passwordless shares, newest first.
// Pages are 1-indexed; limit is capped at 100
func (p *PublicList) List(page, limit int) (*PublicPage, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 20
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	listable := func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("visibility = ?", model.VisibilityPublic).
			Where("share_token IS NOT NULL").
			Where("share_password_hash IS NULL").
			Where("share_expires_at IS NULL OR share_expires_at > ?", time.Now())
	}

	var total int64
	if err := p.DB.Model(model.File{}).Scopes(listable).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count public files, %w", err)
	}

	type row struct {
		model.File
		OwnerUsername *string
	}

	var rows []row

	err := p.DB.
		Model(model.File{}).
		Scopes(listable).
		Select("files.*, users.username AS owner_username").
		Joins("LEFT JOIN users ON users.id = files.owner_id").
		Order("files.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list public files, %w", err)
	}

	files := make([]PublicFileInfo, 0, len(rows))
	for _, r := range rows {
		info := PublicFileInfo{
			ID:          r.ID,
			Filename:    r.Filename,
			MimeType:    r.MimeType,
			Size:        r.Size,
			CreatedAt:   r.File.CreatedAt,
			HasPassword: false,
		}

		if r.OwnerUsername != nil {
			info.OwnerUsername = *r.OwnerUsername
		}

		files = append(files, info)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return &PublicPage{
		Files:      files,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// PublicInfo builds the anonymous metadata view for one resolved share
func PublicInfo(file *model.File, ownerUsername string) *PublicFileInfo {
	return &PublicFileInfo{
		ID:            file.ID,
		Filename:      file.Filename,
		MimeType:      file.MimeType,
		Size:          file.Size,
		CreatedAt:     file.CreatedAt,
		HasPassword:   file.SharePasswordHash != nil,
		OwnerUsername: ownerUsername,
	}
}
