package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects declared bodies above maxBytes with 413 and caps
// undeclared ones while they are read
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
