package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestNewTraceContext_GeneratesBlanks(t *testing.T) {
	tc := NewTraceContext(context.Background(), "", "")

	assert.NotEmpty(t, tc.TraceID)
	assert.NotEmpty(t, tc.RequestID)
	assert.Len(t, tc.SpanID, 16)
}

func TestNewTraceContext_PropagatedIDsWin(t *testing.T) {
	tc := NewTraceContext(context.Background(), "trace-from-header", "req-from-header")

	assert.Equal(t, "trace-from-header", tc.TraceID)
	assert.Equal(t, "req-from-header", tc.RequestID)
}

func TestNewTraceContext_FollowsActiveSpan(t *testing.T) {
	traceID, err := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), sc)

	tc := NewTraceContext(ctx, "", "")
	assert.Equal(t, traceID.String(), tc.TraceID)
	assert.Equal(t, spanID.String(), tc.SpanID)
}

func TestGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTrace(ctx, &TraceContext{TraceID: "t-1", RequestID: "r-1"})
	assert.Equal(t, "t-1", GetTraceID(ctx))
	assert.Equal(t, "r-1", GetRequestID(ctx))
}
