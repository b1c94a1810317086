package user

import (
	"net/http"
	"strings"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	userEmail := c.MustGet("userEmail").(string)

	var body struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || len(body.Username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username must be between 1 and 64 characters",
			"requestID": requestID,
		})
		return
	}

	user, err := d.Users.UpdateUsername(userID, userEmail, body.Username)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
