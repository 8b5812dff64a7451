package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sourcingops/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Spreadsheet
// uploads go through this, so the limit must accommodate the configured
// max import size.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		// Guards streaming requests that omit Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
