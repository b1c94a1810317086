package category

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func List(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	categories, err := d.Categories.List(userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
