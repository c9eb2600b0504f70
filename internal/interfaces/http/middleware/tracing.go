package middleware

import (
	"net/http"

	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin middleware. Spans are named after the route
// pattern, e.g. "POST /api/v1/payables/:id/pay".
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TracingAttributes copies the request ID and, once Auth has run, the caller
// identity onto the request span. Place it after Auth.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if company, ok := GetCompany(c); ok {
				span.SetAttributes(attribute.String(telemetry.AttrCompanyID, company.CompanyID.String()))
			}
			if actor, ok := GetActor(c); ok {
				span.SetAttributes(attribute.String(telemetry.AttrActorID, actor.ID.String()))
				if actor.BranchID != nil {
					span.SetAttributes(attribute.String(telemetry.AttrBranchID, actor.BranchID.String()))
				}
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the request span as failed for 5xx responses and
// records the status for 4xx ones.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
