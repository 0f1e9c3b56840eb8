package queue

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
)

// Future holds the eventual outcome of exactly one submitted job.
// It is fulfilled exactly once by the worker that ran the job; any
// number of callers may wait on it concurrently and all observe the
// same outcome.
type Future struct {
	clock quartz.Clock
	done  chan struct{}
	value any
	err   error
}

func newFuture(clk quartz.Clock) *Future {
	return &Future{clock: clk, done: make(chan struct{})}
}

// fulfill records the outcome and wakes all waiters. Called exactly
// once; value and err are published via the channel close.
func (f *Future) fulfill(value any, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done returns a channel closed once the job reaches a terminal state.
func (f *Future) Done() <-chan struct{} { return f.done }

// Result blocks until the job finishes or timeout elapses. A timeout
// <= 0 waits indefinitely. On timeout it returns ErrResultTimeout and
// the future remains pending: the wait is cancelled, never the job.
func (f *Future) Result(timeout time.Duration) (any, error) {
	if timeout <= 0 {
		<-f.done
		return f.value, f.err
	}
	timer := f.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		return nil, ErrResultTimeout
	}
}

// Wait is the context flavour of Result. A deadline expiry maps to
// ErrResultTimeout; any other context error is returned as is.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrResultTimeout
		}
		return nil, ctx.Err()
	}
}
