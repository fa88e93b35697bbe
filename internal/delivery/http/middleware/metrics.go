package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/pkg/metrics"
)

// Metrics observes every request by its route template. Unmatched routes are
// grouped under "unmatched" to keep label cardinality bounded.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
