// Package httperr maps domain errors onto HTTP responses so every
// handler reports failures the same way
package httperr

import (
	"errors"
	"net/http"

	"selfvault/file-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Abort writes the response for err and stops the handler chain.
// Unrecognized errors are logged and collapsed into a generic 500 so no
// internal detail leaks
func Abort(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	status, msg := classify(err)

	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("requestID", requestID),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrExpired):
		return http.StatusGone, "Share link has expired"
	case errors.Is(err, service.ErrDownloadLimitReached):
		return http.StatusGone, "Download limit reached"
	case errors.Is(err, service.ErrBadPassword):
		return http.StatusUnauthorized, "Invalid password"
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge, "Storage quota exceeded"
	case errors.Is(err, service.ErrDuplicateContent):
		return http.StatusConflict, "File already exists"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
