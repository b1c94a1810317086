// Package user contains the authenticated account endpoints
package user

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func Fetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)
	userEmail := c.MustGet("userEmail").(string)

	user, err := d.Users.FindOrCreate(userID, userEmail)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	usage, err := d.Quota.Usage(userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	settings, err := d.Settings.Get(userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"storage_used":  usage,
		"storage_limit": settings.StorageLimit,
		"created_at":    user.CreatedAt,
	})
}
