// Package queue provides a bounded-concurrency job execution queue.
// Submitted jobs are claimed in FIFO order by a fixed set of workers;
// each submission returns a Future holding the job's eventual outcome.
package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"
)

var (
	// ErrInvalidWorkers is returned by New for a non-positive worker count.
	ErrInvalidWorkers = errors.New("queue: worker count must be positive")

	// ErrQueueClosed is returned by Submit once Shutdown has begun.
	ErrQueueClosed = errors.New("queue: closed")

	// ErrNilJob is returned by Submit for a nil job.
	ErrNilJob = errors.New("queue: nil job")

	// ErrResultTimeout is returned by Future.Result when the wait deadline
	// elapses before the job finishes. The future stays pending and can be
	// waited on again.
	ErrResultTimeout = errors.New("queue: result wait timed out")

	// ErrJobPanic marks outcomes of jobs that panicked. Use errors.Is
	// against it; the recovered value is on the JobPanicError.
	ErrJobPanic = errors.New("queue: job panicked")
)

// Job is a deferred unit of work. Callers close over any inputs it needs.
type Job func() (any, error)

// Stats is a point-in-time view of queue occupancy. Both counters can
// change the instant after the snapshot is taken.
type Stats struct {
	RunningWorkers int
	QueuedJobs     int
}

// JobPanicError is the stored outcome of a job whose body panicked.
type JobPanicError struct {
	Value any
}

func (e *JobPanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

func (e *JobPanicError) Unwrap() error { return ErrJobPanic }

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces the clock used for result-wait timeouts.
func WithClock(clk quartz.Clock) Option {
	return func(q *Queue) { q.clock = clk }
}

type item struct {
	job Job
	fut *Future
}

// Queue runs submitted jobs on a fixed number of worker goroutines.
// The pending list is unbounded; Submit never blocks on execution.
type Queue struct {
	clock quartz.Clock

	// mu guards pending, running and accepting. cond is signalled on
	// enqueue and broadcast on shutdown.
	mu        sync.Mutex
	cond      *sync.Cond
	pending   []item
	running   int
	accepting bool

	wg sync.WaitGroup
}

// New creates a queue and starts maxWorkers long-lived workers.
func New(maxWorkers int, opts ...Option) (*Queue, error) {
	if maxWorkers < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidWorkers, maxWorkers)
	}
	q := &Queue{
		clock:     quartz.NewReal(),
		accepting: true,
	}
	q.cond = sync.NewCond(&q.mu)
	for _, opt := range opts {
		opt(q)
	}
	q.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go q.worker()
	}
	return q, nil
}

// Submit appends job to the tail of the queue and returns its Future.
// It never blocks on job completion. After Shutdown it fails with
// ErrQueueClosed and nothing is enqueued.
func (q *Queue) Submit(job Job) (*Future, error) {
	if job == nil {
		return nil, ErrNilJob
	}
	fut := newFuture(q.clock)
	q.mu.Lock()
	if !q.accepting {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	q.pending = append(q.pending, item{job: job, fut: fut})
	q.mu.Unlock()
	q.cond.Signal()
	return fut, nil
}

// Stats returns a consistent snapshot of current occupancy. It never
// blocks on job completion.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{RunningWorkers: q.running, QueuedJobs: len(q.pending)}
}

// Shutdown stops admission. Jobs already queued or running are drained
// to completion; nothing is cancelled. With wait true it blocks until
// every worker has exited. Calling it again is a no-op.
func (q *Queue) Shutdown(wait bool) {
	q.mu.Lock()
	q.accepting = false
	q.mu.Unlock()
	q.cond.Broadcast()
	if wait {
		q.wg.Wait()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && q.accepting {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			// Draining and nothing left.
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.running++
		q.mu.Unlock()

		val, err := runJob(next.job)
		next.fut.fulfill(val, err)

		q.mu.Lock()
		q.running--
		q.mu.Unlock()
	}
}

// runJob executes job, converting a panic into a stored error so a bad
// job can never take down its worker.
func runJob(job Job) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = nil
			err = &JobPanicError{Value: r}
		}
	}()
	return job()
}
