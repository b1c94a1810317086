// Package category contains the owner-side category management endpoints
package category

import (
	"net/http"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	category, err := d.Categories.Create(userID, body.Name, body.Color)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}
