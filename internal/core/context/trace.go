package context

import (
	"context"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TraceContext carries request correlation identifiers. TraceID and SpanID
// follow the active OpenTelemetry span when one is present; outside an
// instrumented path they are generated locally so log lines still correlate.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// NewTraceContext builds identifiers for a request. Caller-supplied ids
// (propagated headers) win over the otel span context; blanks are generated.
func NewTraceContext(ctx context.Context, traceID, requestID string) *TraceContext {
	sc := oteltrace.SpanContextFromContext(ctx)

	if traceID == "" {
		if sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else {
			traceID = uuid.NewString()
		}
	}

	spanID := newLocalSpanID()
	if sc.HasSpanID() {
		spanID = sc.SpanID().String()
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}

	return &TraceContext{
		TraceID:   traceID,
		SpanID:    spanID,
		RequestID: requestID,
	}
}

// newLocalSpanID generates a 16-hex-char span id for uninstrumented paths,
// matching the width of an otel span id.
func newLocalSpanID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// WithTrace stores trace identifiers in ctx.
func WithTrace(ctx context.Context, tc *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}

// GetTrace returns trace identifiers from ctx, or nil when none were stored.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns the trace id from ctx. Falls back to the otel span
// context so code running under a span but outside a request still logs a
// usable id; returns empty when neither is present.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	if sc := oteltrace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// GetRequestID returns the request id from ctx or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
