package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. Oversized CSV import
// uploads are the main target; a declared Content-Length over the limit
// is rejected up front, chunked bodies are capped by MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
