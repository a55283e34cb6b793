package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware tracks HTTP request metrics
func HTTPMetricsMiddleware(apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := sanitizePath(c.FullPath(), c.Request.URL.Path, apiPrefix)

		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}

// sanitizePath keeps label cardinality bounded: registered routes use their
// template, proxied calls collapse to the prefix and the rest is the SPA.
func sanitizePath(fullPath, rawPath, apiPrefix string) string {
	if apiPrefix != "" && (rawPath == apiPrefix || strings.HasPrefix(rawPath, apiPrefix+"/")) {
		return apiPrefix + "/*"
	}
	if fullPath != "" {
		return fullPath
	}
	return "/spa"
}
