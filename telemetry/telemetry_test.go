package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCleanly(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	require.NotPanics(t, func() { m.MustRegister(reg) })

	m.PipelineCalls.WithLabelValues("sequential", "ok").Inc()
	m.CompositeFailures.Inc()
	m.HubBroadcasts.Inc()
	m.CompressionEvents.WithLabelValues("s1").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestGlobalMetricsIsASingleton(t *testing.T) {
	a := Global()
	b := Global()
	assert.Same(t, a, b)
}

func TestGetTracerCachesByName(t *testing.T) {
	a := GetTracer("agentscope.pipeline")
	b := GetTracer("agentscope.pipeline")
	assert.Equal(t, a, b)
}

func TestStartSpanReturnsUsableSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "agentscope.memory", "compress")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}
