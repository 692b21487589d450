package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// BodyLimit rejects form posts larger than maxBytes. Declared lengths are
// checked up front and streamed bodies fail on read. onTooLarge renders
// the rejection; nil aborts with a bare 413.
func BodyLimit(maxBytes int64, onTooLarge gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			logger.GetGinLogger(c).Warn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", maxBytes))
			if onTooLarge != nil {
				onTooLarge(c)
			}
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
