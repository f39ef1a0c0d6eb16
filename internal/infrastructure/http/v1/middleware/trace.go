package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "stockpilot/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware attaches correlation identifiers to the request context.
// Ids propagated by the caller via headers are kept; missing ones are
// derived from the otel span context or generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := appctx.NewTraceContext(
			c.Request.Context(),
			c.GetHeader(HeaderTraceID),
			c.GetHeader(HeaderRequestID),
		)

		ctx := appctx.WithTrace(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)

		c.Set("trace_id", tc.TraceID)
		c.Set("request_id", tc.RequestID)

		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)

		c.Next()
	}
}
