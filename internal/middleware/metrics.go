package middleware

import (
	"time"

	"github.com/hliejun/ethereum-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware creates a middleware that tracks request metrics
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		collector.RecordRequest()

		c.Next()

		success := c.Writer.Status() < 400
		collector.RecordRequestComplete(time.Since(startTime), success)
	}
}
