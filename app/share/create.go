// Package share contains the owner-side share management endpoints
package share

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"
	"selfvault/file-api/internal/service"

	"github.com/gin-gonic/gin"
)

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	// An empty body means a permanent, open share
	var opts service.ShareOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid request body",
				"requestID": requestID,
			})
			return
		}
	}

	info, err := d.Shares.Create(fileID, userID, opts)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}
