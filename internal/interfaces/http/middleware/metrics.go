package middleware

import (
	"time"

	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that matched no route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route pattern. A nil
// collector set disables it.
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
