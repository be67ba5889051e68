package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PanicRecovery turns a panic into a 500 and counts it. panics may be nil.
func PanicRecovery(log logrus.FieldLogger, panics prometheus.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if panics != nil {
					panics.Inc()
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()

		c.Next()
	}
}
