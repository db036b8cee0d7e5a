// Package task provides the process-scoped supervisor that spawns
// every background reconcile loop in the control plane, per
// SPEC_FULL.md §4.B. Tasks are always of the shape:
//
//	for {
//	    ready := AwaitReady3(ctx, log, a, b, c)
//	    ...recompute and publish...
//	    ContinueOn(ctx, maxDelay, a, b, c)
//	}
//
// A panic in any task is logged with its label and escalated by
// closing the Builder's abort channel, which main() selects on to exit
// the process -- there is no silent loss of a reconciler.
package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

// Builder assigns a stable label to each spawned task and supervises
// it: a panicking task is logged and escalates to Aborted().
type Builder struct {
	log   logr.Logger
	wg    sync.WaitGroup
	abort chan struct{}
	once  sync.Once

	mu     sync.Mutex
	labels map[string]struct{}
}

// NewBuilder returns a Builder that logs through log.
func NewBuilder(log logr.Logger) *Builder {
	return &Builder{
		log:    log,
		abort:  make(chan struct{}),
		labels: make(map[string]struct{}),
	}
}

// Go spawns fn as a supervised goroutine labeled label, passing it a
// context derived from ctx so cancellation of ctx (process shutdown)
// propagates into the task. Labels must be unique within a Builder; a
// duplicate label panics immediately since it indicates a wiring bug,
// not a runtime condition.
func (b *Builder) Go(ctx context.Context, label string, fn func(ctx context.Context)) {
	b.mu.Lock()
	if _, exists := b.labels[label]; exists {
		b.mu.Unlock()
		panic(fmt.Sprintf("task: duplicate label %q", label))
	}
	b.labels[label] = struct{}{}
	b.mu.Unlock()

	taskCtx := context.WithValue(ctx, labelKey{}, label)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.Error(fmt.Errorf("panic: %v", r), "task panicked, aborting process", "task", label)
				b.once.Do(func() { close(b.abort) })
			}
		}()
		fn(taskCtx)
	}()
}

// Aborted returns a channel that is closed the moment any supervised
// task panics. main() should select on it alongside OS signal
// cancellation.
func (b *Builder) Aborted() <-chan struct{} {
	return b.abort
}

// Wait blocks until every spawned task has returned (normally, via
// context cancellation, since tasks are infinite loops otherwise).
func (b *Builder) Wait() {
	b.wg.Wait()
}

type labelKey struct{}

// Label extracts the task label stashed by Go, if any.
func Label(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(labelKey{}).(string)
	return v, ok
}
