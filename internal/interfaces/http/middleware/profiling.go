package middleware

import (
	"context"
	"strings"

	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling label keys
const (
	ProfilingLabelRoute    = "http_route"
	ProfilingLabelResource = "resource"
	ProfilingLabelMethod   = "http_method"
)

// Profiling tags CPU samples taken while serving a request with its route,
// so a slow settlement shows up under its own label.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			ProfilingLabelMethod:   c.Request.Method,
			ProfilingLabelRoute:    route,
			ProfilingLabelResource: resourceFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first static segment after the version prefix,
// "/api/v1/payables/:id/pay" gives "payables".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "", part == "api", strings.HasPrefix(part, ":"):
			continue
		case len(part) > 1 && part[0] == 'v' && strings.Trim(part[1:], "0123456789") == "":
			continue
		}
		return part
	}
	return ""
}
