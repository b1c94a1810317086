package user

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"
	"selfvault/file-api/internal/service"

	"github.com/gin-gonic/gin"
)

func FetchSettings(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	settings, err := d.Settings.Get(userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func EditSettings(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var patch service.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	settings, err := d.Settings.Update(userID, patch)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
