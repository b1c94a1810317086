// Package public contains the unauthenticated share endpoints. Every
// handler goes through the access gate before touching anything else
package public

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"
	"selfvault/file-api/internal/model"
	"selfvault/file-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Meta(c *gin.Context, d *internal.Deps) {
	token := c.Param("token")

	file, err := d.Access.Resolve(token)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	var owner model.User

	err = d.DB.
		Where("id = ?", file.OwnerID).
		First(&owner).
		Error
	if err != nil {
		// Metadata is still useful without the display name
		zap.L().Warn("Failed to fetch share owner", zap.String("file_id", file.ID), zap.Error(err))
	}

	username := ""
	if owner.Username != nil {
		username = *owner.Username
	}

	c.JSON(http.StatusOK, service.PublicInfo(file, username))
}
