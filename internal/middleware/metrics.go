package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-attendance-api/internal/service"
)

// Metrics records request count and latency per route. Uses the route
// template rather than the raw path so /points/:id stays one series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
