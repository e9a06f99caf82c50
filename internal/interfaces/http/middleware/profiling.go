package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
)

// Profiling attaches Pyroscope route and method labels to the request
// so CPU samples can be split per endpoint. Disabled when enabled is false.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" {
			c.Next()
			return
		}
		labels := telemetry.HTTPRequestLabels(route, c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
