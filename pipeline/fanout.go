package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/scheduler"
	"github.com/agentscope-go/core/telemetry"
)

// Fanout runs the same input against many agents, either one at a time in
// insertion order (sequential mode) or in parallel via a Scheduler
// (concurrent mode, the default).
type Fanout struct {
	agents     []agent.Agent
	concurrent bool
	sched      scheduler.Scheduler
}

// FanoutBuilder builds a Fanout pipeline.
type FanoutBuilder struct {
	agents     []agent.Agent
	concurrent bool
	sched      scheduler.Scheduler
}

// NewFanoutBuilder starts a builder defaulting to concurrent mode with no
// explicit scheduler (meaning: use scheduler.Default at build/run time).
func NewFanoutBuilder() *FanoutBuilder {
	return &FanoutBuilder{concurrent: true}
}

// Add appends one agent.
func (b *FanoutBuilder) Add(a agent.Agent) *FanoutBuilder {
	b.agents = append(b.agents, a)
	return b
}

// AddMany appends a batch of agents, in order.
func (b *FanoutBuilder) AddMany(agents []agent.Agent) *FanoutBuilder {
	b.agents = append(b.agents, agents...)
	return b
}

// SetConcurrent toggles concurrent vs sequential mode. Toggleable any
// number of times before Build.
func (b *FanoutBuilder) SetConcurrent(concurrent bool) *FanoutBuilder {
	b.concurrent = concurrent
	return b
}

// SetScheduler sets the scheduler used in concurrent mode. nil is
// permitted and means "use scheduler.Default".
func (b *FanoutBuilder) SetScheduler(s scheduler.Scheduler) *FanoutBuilder {
	b.sched = s
	return b
}

// Build finalizes the pipeline, copying builder state.
func (b *FanoutBuilder) Build() *Fanout {
	return &Fanout{
		agents:     append([]agent.Agent(nil), b.agents...),
		concurrent: b.concurrent,
		sched:      b.sched,
	}
}

// Size returns the number of agents in the pipeline.
func (f *Fanout) Size() int { return len(f.agents) }

// IsConcurrentEnabled reports the pipeline's final concurrency mode.
func (f *Fanout) IsConcurrentEnabled() bool { return f.concurrent }

// Agents returns a snapshot of the pipeline's agents.
func (f *Fanout) Agents() []agent.Agent {
	return append([]agent.Agent(nil), f.agents...)
}

type fanoutResult struct {
	index   int
	name    string
	msg     *message.Msg
	err     error
	elapsed time.Duration
}

// Execute runs the pipeline against m0.
//
// Sequential mode invokes agents one at a time in insertion order and the
// results preserve that order. Concurrent mode dispatches every agent
// through the pipeline's scheduler (or scheduler.Default if none was
// set); result ordering is not guaranteed, and a context cancellation
// cancels all in-flight calls, discards any completed results, and
// surfaces the cancellation error rather than a CompositeAgentError.
//
// If any agents fail, Execute returns a *CompositeAgentError whose Causes
// is the non-empty, completion-ordered sequence of observed errors.
// Successful agents still count as invoked (reflected in their own call
// counters) but their results are not surfaced alongside a failure.
func (f *Fanout) Execute(ctx context.Context, m0 *message.Msg) ([]*message.Msg, error) {
	ctx, span := telemetry.StartSpan(ctx, "agentscope.pipeline", telemetry.SpanPipelineFanout)
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.AttrParticipants, len(f.agents)))

	if len(f.agents) == 0 {
		return nil, nil
	}

	var results []*message.Msg
	var err error
	if !f.concurrent {
		results, err = f.executeSequential(ctx, m0)
	} else {
		results, err = f.executeConcurrent(ctx, m0)
	}

	var composite *CompositeAgentError
	if errors.As(err, &composite) {
		span.SetAttributes(attribute.Int(telemetry.AttrCauseCount, len(composite.Causes)))
	}
	return results, err
}

func (f *Fanout) executeSequential(ctx context.Context, m0 *message.Msg) ([]*message.Msg, error) {
	results := make([]*message.Msg, 0, len(f.agents))
	var causes []error

	for _, a := range f.agents {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()
		out, err := a.Call(ctx, m0)
		elapsed := time.Since(start)
		if err != nil {
			causes = append(causes, err)
			recordOutcome("fanout_sequential", "error", elapsed)
			continue
		}
		recordOutcome("fanout_sequential", "ok", elapsed)
		results = append(results, out)
	}

	if len(causes) > 0 {
		telemetry.Global().CompositeFailures.Inc()
		return nil, &CompositeAgentError{Causes: causes}
	}
	return results, nil
}

func (f *Fanout) executeConcurrent(ctx context.Context, m0 *message.Msg) ([]*message.Msg, error) {
	sched := f.sched
	if sched == nil {
		sched = scheduler.Default{}
	}

	resultsCh := make(chan fanoutResult, len(f.agents))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i, a := range f.agents {
		i, a := i, a
		wg.Add(1)
		go func() {
			defer wg.Done()
			ran := false
			err := sched.Submit(runCtx, func(taskCtx context.Context) error {
				ran = true
				start := time.Now()
				out, callErr := a.Call(taskCtx, m0)
				resultsCh <- fanoutResult{index: i, name: a.Name(), msg: out, err: callErr, elapsed: time.Since(start)}
				return callErr
			})
			if err != nil && !ran {
				// Submit-level failure: the scheduler rejected the task
				// outright without ever invoking it, so no result was sent.
				resultsCh <- fanoutResult{index: i, name: a.Name(), err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]*message.Msg, 0, len(f.agents))
	var causes []error
	seen := 0

	for seen < len(f.agents) {
		select {
		case <-ctx.Done():
			cancel()
			return nil, ctx.Err()
		case res, ok := <-resultsCh:
			if !ok {
				seen = len(f.agents)
				break
			}
			seen++
			if res.err != nil {
				causes = append(causes, res.err)
				recordOutcome("fanout_concurrent", "error", res.elapsed)
				continue
			}
			recordOutcome("fanout_concurrent", "ok", res.elapsed)
			results = append(results, res.msg)
		}
	}

	if len(causes) > 0 {
		telemetry.Global().CompositeFailures.Inc()
		return nil, &CompositeAgentError{Causes: causes}
	}
	return results, nil
}
