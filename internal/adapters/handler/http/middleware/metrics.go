package middleware

import (
	"strconv"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/adapters/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request count, in-flight gauge and latency per route
// template, so /lifts/:id is one series no matter the id.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		start := time.Now()

		defer func() {
			m.GaugeRequests.Dec()

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}()

		c.Next()
	}
}
