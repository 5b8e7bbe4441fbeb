// Package agenttest provides a minimal agent.Agent test double shared by
// the pipeline, msghub, and agent test suites.
package agenttest

import (
	"context"
	"errors"
	"sync"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/message"
)

// Fake is a configurable agent.Agent: it returns a fixed response (or a
// fixed error), records every Observe call, counts Call invocations, and
// broadcasts its final response to subscribers the same way a real agent
// must.
type Fake struct {
	agent.BaseAgent

	NameValue string
	IDValue   string
	Response  string
	FailWith  error
	Delay     func(ctx context.Context) error // optional hook to simulate latency/cancellation

	mu       sync.Mutex
	calls    int
	observed []*message.Msg
}

// New constructs a Fake that returns response text on Call.
func New(name, response string) *Fake {
	return &Fake{NameValue: name, IDValue: name, Response: response}
}

// NewFailing constructs a Fake whose Call always fails with err.
func NewFailing(name string, err error) *Fake {
	if err == nil {
		err = errors.New("boom")
	}
	return &Fake{NameValue: name, IDValue: name, FailWith: err}
}

func (f *Fake) Name() string { return f.NameValue }
func (f *Fake) ID() string   { return f.IDValue }

// Call implements agent.Agent.
func (f *Fake) Call(ctx context.Context, input *message.Msg) (*message.Msg, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Delay != nil {
		if err := f.Delay(ctx); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	out := message.NewText(message.RoleAssistant, f.NameValue, f.Response)
	for _, sub := range f.BaseAgent.AllSubscribers() {
		_ = sub.Observe(ctx, out)
	}
	return out, nil
}

// Observe implements agent.Agent.
func (f *Fake) Observe(ctx context.Context, msg *message.Msg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observed = append(f.observed, msg)
	return nil
}

// CallCount returns how many times Call has been invoked.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Observed returns a snapshot of every message this agent has observed.
func (f *Fake) Observed() []*message.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*message.Msg(nil), f.observed...)
}
