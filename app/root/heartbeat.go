// Package root contains endpoints that don't belong to any resource
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat is used by load balancers and the frontend to check if the
// server is alive
func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
