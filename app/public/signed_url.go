package public

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func SignedURL(c *gin.Context, d *internal.Deps) {
	token := c.Param("token")

	url, err := d.Downloads.SignedURL(c.Request.Context(), token, c.Query("password"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
