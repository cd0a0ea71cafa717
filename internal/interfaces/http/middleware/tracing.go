package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns otelgin followed by a handler that tags the server span with
// the request and user ids and marks 5xx responses as errors. Use it with
// engine.Use(Tracing(name)...).
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlersChain {
	return gin.HandlersChain{otelgin.Middleware(serviceName, opts...), enrichSpan}
}

// enrichSpan runs inside the otelgin span, so the span is still open after c.Next
func enrichSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}

	c.Next()

	if userID := GetJWTUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	if len(c.Errors) > 0 {
		span.SetAttributes(attribute.StringSlice("gin.errors", c.Errors.Errors()))
	}
}
