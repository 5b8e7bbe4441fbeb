package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors this core exports. A single
// instance is normally registered process-wide via NewMetrics +
// Registry.MustRegister, but each instance is independently usable (e.g.
// in tests) without touching the global registry.
type Metrics struct {
	PipelineCalls      *prometheus.CounterVec
	PipelineDuration   *prometheus.HistogramVec
	CompositeFailures  prometheus.Counter
	HubBroadcasts      prometheus.Counter
	CompressionEvents  *prometheus.CounterVec
}

var (
	globalOnce sync.Once
	global     *Metrics
)

// NewMetrics constructs a fresh, unregistered Metrics bundle.
func NewMetrics() *Metrics {
	return &Metrics{
		PipelineCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentscope_pipeline_calls_total",
			Help: "Number of agent calls dispatched by a pipeline, by pipeline kind and outcome.",
		}, []string{"kind", "outcome"}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "agentscope_pipeline_call_duration_seconds",
			Help: "Duration of a single agent call within a pipeline.",
		}, []string{"kind"}),
		CompositeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentscope_pipeline_composite_failures_total",
			Help: "Number of fan-out pipeline executions that produced a CompositeAgentError.",
		}),
		HubBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentscope_msghub_broadcasts_total",
			Help: "Number of non-empty MsgHub broadcasts, including announcements delivered on Enter.",
		}),
		CompressionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentscope_memory_compression_events_total",
			Help: "Number of compression passes in which a strategy applied, by strategy.",
		}, []string{"strategy"}),
	}
}

// MustRegister registers every collector in m with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.PipelineCalls,
		m.PipelineDuration,
		m.CompositeFailures,
		m.HubBroadcasts,
		m.CompressionEvents,
	)
}

// Global returns (and lazily creates, but does not register) the
// process-wide Metrics instance used by components that don't have one
// explicitly wired in.
func Global() *Metrics {
	globalOnce.Do(func() {
		global = NewMetrics()
	})
	return global
}
