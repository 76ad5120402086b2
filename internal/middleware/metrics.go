package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/service"
)

// Metrics observes every routed request. Unmatched paths are grouped under one label so
// probing clients cannot inflate label cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
