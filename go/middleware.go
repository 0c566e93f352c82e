package cartserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-cart-store/internal/platform/metrics"
)

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler, c.Request.Method).Observe(float64(time.Since(start).Milliseconds()))
	}
}
