package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
)

// Metrics records the duration of every request against its route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, time.Since(start).Seconds())
	}
}
