package file

import (
	"net/http"
	"strconv"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func Download(c *gin.Context, d *internal.Deps) {
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

	record, data, err := d.Files.Download(c.Request.Context(), fileID, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+record.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))

	mime := record.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	c.Data(http.StatusOK, mime, data)
}
