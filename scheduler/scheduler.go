// Package scheduler provides the opaque collaborator fan-out pipelines
// use to run a unit of work on some thread. Three implementations are
// provided: Default (one goroutine per task, awaited), Immediate
// (synchronous, for deterministic tests), and VirtualTime (a
// manually-advanced queue used by tests that need to assert ordering
// without real concurrency).
package scheduler

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scheduler accepts a unit of work and runs it. The task may run
// synchronously or on another goroutine depending on the implementation;
// either way Submit returns only once the task has finished.
type Scheduler interface {
	// Submit runs task and blocks until it completes, returning any error
	// task produced.
	Submit(ctx context.Context, task func(ctx context.Context) error) error
}

// Default wraps golang.org/x/sync/errgroup to dispatch a task onto its own
// goroutine and wait for it. Each Submit call gets its own single-task
// errgroup, so callers always observe the outcome of their own submission
// rather than some shared group's aggregate.
type Default struct{}

// Submit implements Scheduler by running task on a new goroutine and
// waiting for it to finish.
func (Default) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return task(gctx)
	})
	return g.Wait()
}

// Immediate runs the task synchronously on the caller's goroutine. Useful
// for deterministic unit tests of fan-out pipelines that don't want to
// reason about real concurrency.
type Immediate struct{}

// Submit implements Scheduler.
func (Immediate) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	return task(ctx)
}

// VirtualTime is a manually-advanced scheduler: Submit enqueues the task
// and blocks the calling goroutine until a later Advance call actually
// runs it, returning the error that run produced (matching Scheduler's
// "Submit blocks until the task completes" contract). The test driver
// calls Advance to run queued tasks in FIFO order. This lets tests assert
// dispatch ordering without depending on real goroutine scheduling.
type VirtualTime struct {
	mu    sync.Mutex
	queue []*vtTask
}

type vtTask struct {
	run  func() error
	done chan error
}

// Submit implements Scheduler by enqueueing task and blocking until a
// subsequent Advance call runs it.
func (v *VirtualTime) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	t := &vtTask{
		run:  func() error { return task(ctx) },
		done: make(chan error, 1),
	}
	v.mu.Lock()
	v.queue = append(v.queue, t)
	v.mu.Unlock()
	return <-t.done
}

// Advance runs every currently queued task, in FIFO submission order,
// unblocking each task's Submit call with its result, and returns the
// first error encountered (if any), after running all of them.
func (v *VirtualTime) Advance() error {
	v.mu.Lock()
	pending := v.queue
	v.queue = nil
	v.mu.Unlock()

	var firstErr error
	for _, t := range pending {
		err := t.run()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		t.done <- err
	}
	return firstErr
}

// Pending returns the number of tasks queued but not yet run.
func (v *VirtualTime) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}
