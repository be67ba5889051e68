package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request. Errors attached with c.Error
// are logged at error level.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"ip":       c.ClientIP(),
		})
		if userID, ok := GetUserID(c); ok {
			entry = entry.WithField("user_id", userID)
		}

		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Error("request failed")
			return
		}
		entry.Debug("request served")
	}
}
