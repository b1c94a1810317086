package category

import (
	"net/http"
	"strconv"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid category ID",
			"requestID": requestID,
		})
		return
	}

	if err := d.Categories.Delete(uint(categoryID), userID); err != nil {
		httperr.Abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
