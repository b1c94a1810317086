package internal

import (
	"selfvault/file-api/internal/service"
	"selfvault/file-api/pkg/security"
	"selfvault/file-api/storage"

	"gorm.io/gorm"
)

// Deps carries every injected handle the handlers need. Nothing in here
// is a package-level global; the router builds one Deps and passes it down
type Deps struct {
	DB    *gorm.DB
	Store storage.Store
	Argon *security.ArgonHash

	Users      *service.Users
	Settings   *service.Settings
	Quota      *service.Quota
	Uploader   *service.Uploader
	Files      *service.Files
	Categories *service.Categories
	Shares     *service.Shares
	Access     *service.Access
	Downloads  *service.Downloads
	PublicList *service.PublicList
}

// NewDeps wires the service graph on top of the shared DB and blob store
func NewDeps(db *gorm.DB, store storage.Store) *Deps {
	argon := security.New()

	settings := service.NewSettings(db)
	quota := service.NewQuota(db, settings)
	access := service.NewAccess(db, argon)

	return &Deps{
		DB:    db,
		Store: store,
		Argon: argon,

		Users:      service.NewUsers(db),
		Settings:   settings,
		Quota:      quota,
		Uploader:   service.NewUploader(db, store, quota),
		Files:      service.NewFiles(db, store),
		Categories: service.NewCategories(db),
		Shares:     service.NewShares(db, argon),
		Access:     access,
		Downloads:  service.NewDownloads(db, store, access),
		PublicList: service.NewPublicList(db),
	}
}
