package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/metrics"
)

// PrometheusMiddleware records request count and latency per endpoint.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method

		c.Next()

		if path == "" {
			path = "unmatched"
		}

		metrics.RequestCounter.WithLabelValues(method, path).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
