package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin so every request gets a server span named after
// the matched route pattern.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceEnrichment attaches request ID and authenticated identity to the
// current span. Place it after RequestID and the JWT middleware.
func TraceEnrichment() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := GetRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			if session, ok := GetSession(c); ok {
				span.SetAttributes(
					attribute.String("store_id", session.StoreID.String()),
					attribute.String("user_id", session.UserID.String()),
				)
			}
		}

		c.Next()

		// Mark client and server errors on the span after the handler ran.
		if status := c.Writer.Status(); status >= http.StatusBadRequest && span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
	}
}
