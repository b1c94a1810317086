package file

import (
	"net/http"
	"strconv"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"
	"selfvault/file-api/internal/service"

	"github.com/gin-gonic/gin"
)

func FetchBulk(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Page must be a positive number",
			"requestID": requestID,
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be a positive number",
			"requestID": requestID,
		})
		return
	}

	opts := service.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Category ID must be a number",
				"requestID": requestID,
			})
			return
		}

		cid := uint(id)
		opts.CategoryID = &cid
	}

	pageResult, err := d.Files.List(userID, opts)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResult)
}
