// Package file contains the owner-scoped file endpoints
package file

import (
	"net/http"
	"strconv"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"
	"selfvault/file-api/internal/service"
	"selfvault/file-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Upload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, data, mime, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.String("requestID", requestID), zap.Error(err))
			c.JSON(code, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
			return
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	req := service.UploadRequest{
		Filename:   c.DefaultPostForm("name", fh.Filename),
		MimeType:   mime,
		Visibility: c.PostForm("visibility"),
	}

	if raw := c.PostForm("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Category ID must be a number",
				"requestID": requestID,
			})
			return
		}

		cid := uint(id)
		req.CategoryID = &cid
	}

	record, err := d.Uploader.Upload(c.Request.Context(), userID, data, req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}
