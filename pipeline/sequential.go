// Package pipeline implements the sequential and fan-out composition
// engines that chain or parallelize agent calls over a message.
package pipeline

import (
	"context"
	"time"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Sequential composes agents A1..An: M(i) = A(i).Call(M(i-1)), and the
// pipeline's result is M(n). An empty sequence returns the input
// unchanged (same pointer). Any agent failure aborts the pipeline and
// surfaces the cause unchanged — no wrapping into a composite.
type Sequential struct {
	agents []agent.Agent
}

// SequentialBuilder builds a Sequential pipeline. Build copies the
// builder's current state, so later mutation of the builder does not
// reach back into an already-built pipeline.
type SequentialBuilder struct {
	agents []agent.Agent
}

// NewSequentialBuilder starts an empty builder.
func NewSequentialBuilder() *SequentialBuilder {
	return &SequentialBuilder{}
}

// Append adds one agent to the end of the pipeline.
func (b *SequentialBuilder) Append(a agent.Agent) *SequentialBuilder {
	b.agents = append(b.agents, a)
	return b
}

// AppendBatch adds a batch of agents to the end of the pipeline, in order.
func (b *SequentialBuilder) AppendBatch(agents []agent.Agent) *SequentialBuilder {
	b.agents = append(b.agents, agents...)
	return b
}

// Build finalizes the pipeline. The returned Sequential is read-only.
func (b *SequentialBuilder) Build() *Sequential {
	return &Sequential{agents: append([]agent.Agent(nil), b.agents...)}
}

// Size returns the number of agents in the pipeline.
func (s *Sequential) Size() int { return len(s.agents) }

// Agents returns a snapshot of the pipeline's agents, read-only after
// build.
func (s *Sequential) Agents() []agent.Agent {
	return append([]agent.Agent(nil), s.agents...)
}

// Execute runs the pipeline against m0, returning the final message.
func (s *Sequential) Execute(ctx context.Context, m0 *message.Msg) (*message.Msg, error) {
	ctx, span := telemetry.StartSpan(ctx, "agentscope.pipeline", telemetry.SpanPipelineSequential)
	defer span.End()

	if len(s.agents) == 0 {
		return m0, nil
	}

	cur := m0
	for _, a := range s.agents {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()
		out, err := a.Call(ctx, cur)
		elapsed := time.Since(start)
		if err != nil {
			span.SetAttributes(attribute.String(telemetry.AttrAgentName, a.Name()))
			recordOutcome("sequential", "error", elapsed)
			return nil, err
		}
		recordOutcome("sequential", "ok", elapsed)
		cur = out
	}
	return cur, nil
}

func recordOutcome(kind, outcome string, elapsed time.Duration) {
	telemetry.Global().PipelineCalls.WithLabelValues(kind, outcome).Inc()
	telemetry.Global().PipelineDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
