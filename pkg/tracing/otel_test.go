package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func recordedSpan(t *testing.T, record func(span trace.Span)) tracetest.SpanStub {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "benchmark.scenario")
	record(span)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	return tracetest.SpanStubFromReadOnlySpan(ended[0])
}

func TestRecordSpanScore(t *testing.T) {
	stub := recordedSpan(t, func(span trace.Span) {
		RecordSpanScore(span, 45, 3)
	})

	attrs := make(map[attribute.Key]attribute.Value, len(stub.Attributes))
	for _, kv := range stub.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(45), attrs["score.total"].AsInt64())
	assert.Equal(t, int64(3), attrs["score.completed_questions"].AsInt64())
}

func TestRecordSpanError(t *testing.T) {
	stub := recordedSpan(t, func(span trace.Span) {
		RecordSpanError(span, assert.AnError)
	})

	require.Len(t, stub.Events, 1)
	assert.Equal(t, "exception", stub.Events[0].Name)
}
