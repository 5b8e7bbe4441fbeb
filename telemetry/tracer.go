package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracerMu    sync.Mutex
	tracerCache = map[string]trace.Tracer{}
)

// GetTracer returns the shared tracer for name, creating it lazily against
// whatever global TracerProvider the host process has installed (or the
// OTel no-op provider if none was configured).
func GetTracer(name string) trace.Tracer {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	if t, ok := tracerCache[name]; ok {
		return t
	}
	t := otel.Tracer(name)
	tracerCache[name] = t
	return t
}

// StartSpan starts a span named spanName under the given tracer name,
// returning the derived context and the span so the caller can set
// attributes and must call span.End().
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...trace.SpanStartOption) (context.Context, trace.Span) {
	return GetTracer(tracerName).Start(ctx, spanName, attrs...)
}
