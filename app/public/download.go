package public

import (
	"net/http"
	"strconv"

	"selfvault/file-api/app/httperr"
	"selfvault/file-api/internal"

	"github.com/gin-gonic/gin"
)

// Download serves the blob for a valid token. The password rides in the
// query for GET links; browsers POST it in a JSON body instead so it
// stays out of access logs
func Download(c *gin.Context, d *internal.Deps) {
	token := c.Param("token")

	password := c.Query("password")
	if c.Request.Method == http.MethodPost {
		var body struct {
			Password string `json:"password"`
		}

		// Missing body just means no password was supplied
		if err := c.ShouldBindJSON(&body); err == nil {
			password = body.Password
		}
	}

	file, data, err := d.Downloads.Serve(c.Request.Context(), token, password)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))

	mime := file.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	c.Data(http.StatusOK, mime, data)
}
