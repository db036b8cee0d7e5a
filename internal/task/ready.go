package task

import (
	"context"
	"time"

	"github.com/go-logr/logr"
)

// Readiness is the discriminated union AwaitReady resolves to: either
// every input had a value (Ready, with Value populated) or at least
// one did not (NotReady).
type Readiness[T any] struct {
	Ready bool
	Value T
}

// Source is the minimal capability ContinueOn needs from a
// signal.Receiver[V]: a way to block for the next change (reading the
// current value is ValueSource's addition). Declaring it here (rather than importing
// the concrete Receiver type) keeps this package generic over what
// "an input" means.
type Source interface {
	Changed(ctx context.Context) error
}

// ValueSource additionally exposes the current value of kind V.
type ValueSource[V any] interface {
	Source
	Get() (V, bool)
}

// AwaitReady2 blocks until both a and b have a value, then returns
// Ready((av, bv)). If ctx is cancelled first it returns NotReady. It
// logs at debug level naming whichever inputs were missing, matching
// the await_ready! macro semantics of SPEC_FULL.md §4.B.
func AwaitReady2[A, B any](ctx context.Context, log logr.Logger, a ValueSource[A], b ValueSource[B]) Readiness[struct {
	A A
	B B
}] {
	type pair = struct {
		A A
		B B
	}
	for {
		av, aok := a.Get()
		bv, bok := b.Get()
		if aok && bok {
			return Readiness[pair]{Ready: true, Value: pair{A: av, B: bv}}
		}
		logMissing(log, "a", aok, "b", bok)
		if waitForAny(ctx, a, b) != nil {
			return Readiness[pair]{}
		}
	}
}

// AwaitReady3 is AwaitReady2 generalized to three inputs.
func AwaitReady3[A, B, C any](ctx context.Context, log logr.Logger, a ValueSource[A], b ValueSource[B], c ValueSource[C]) Readiness[struct {
	A A
	B B
	C C
}] {
	type triple = struct {
		A A
		B B
		C C
	}
	for {
		av, aok := a.Get()
		bv, bok := b.Get()
		cv, cok := c.Get()
		if aok && bok && cok {
			return Readiness[triple]{Ready: true, Value: triple{A: av, B: bv, C: cv}}
		}
		logMissing(log, "a", aok, "b", bok, "c", cok)
		if waitForAny(ctx, a, b, c) != nil {
			return Readiness[triple]{}
		}
	}
}

// AwaitReady4 is AwaitReady2 generalized to four inputs.
func AwaitReady4[A, B, C, D any](ctx context.Context, log logr.Logger, a ValueSource[A], b ValueSource[B], c ValueSource[C], d ValueSource[D]) Readiness[struct {
	A A
	B B
	C C
	D D
}] {
	type quad = struct {
		A A
		B B
		C C
		D D
	}
	for {
		av, aok := a.Get()
		bv, bok := b.Get()
		cv, cok := c.Get()
		dv, dok := d.Get()
		if aok && bok && cok && dok {
			return Readiness[quad]{Ready: true, Value: quad{A: av, B: bv, C: cv, D: dv}}
		}
		logMissing(log, "a", aok, "b", bok, "c", cok, "d", dok)
		if waitForAny(ctx, a, b, c, d) != nil {
			return Readiness[quad]{}
		}
	}
}

func logMissing(log logr.Logger, pairs ...interface{}) {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		ok := pairs[i+1].(bool)
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		log.V(1).Info("awaiting inputs", "missing", missing)
	}
}

// ContinueOn blocks until any of sources changes, or maxDelay elapses
// (if maxDelay > 0), whichever comes first. maxDelay provides a
// liveness floor so a reconcile loop re-asserts state periodically
// even when its inputs appear unchanged (e.g. a 30s status refresh).
// It returns ctx.Err() if ctx is cancelled first.
func ContinueOn(ctx context.Context, maxDelay time.Duration, sources ...Source) error {
	waitCtx := ctx
	if maxDelay > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, maxDelay)
		defer cancel()
	}
	err := waitForAny(waitCtx, sources...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	// A timeout on waitCtx (not ctx) is the liveness floor firing, which
	// is a normal "continue the loop" outcome, not an error to the caller.
	return nil
}

// waitForAny races Changed across every source, returning the first
// non-nil error (typically ctx cancellation or ErrClosed) or nil once
// any source reports a change.
func waitForAny(ctx context.Context, sources ...Source) error {
	if len(sources) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	type result struct {
		err error
	}
	results := make(chan result, len(sources))
	innerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, s := range sources {
		s := s
		go func() {
			results <- result{err: s.Changed(innerCtx)}
		}()
	}

	r := <-results
	cancel()
	// Drain the rest so their goroutines don't leak past this call.
	for i := 1; i < len(sources); i++ {
		<-results
	}
	return r.err
}
