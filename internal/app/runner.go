package app

import (
	"context"
	"fmt"
)

// Job is a unit of blocking work. Its return value is delivered on the
// results channel in submission order.
type Job func(ctx context.Context) any

// JobPanic is delivered when a job panics instead of returning.
type JobPanic struct {
	Value any
}

func (p JobPanic) Error() string {
	return fmt.Sprintf("background job panicked: %v", p.Value)
}

// Runner executes jobs one at a time on a single goroutine so that disk
// and network work never blocks the update loop. Results come back in
// the order the jobs were enqueued.
type Runner struct {
	jobs    chan Job
	results chan any
	cancel  context.CancelFunc
}

func NewRunner(buffer int) *Runner {
	if buffer < 1 {
		buffer = 16
	}
	return &Runner{
		jobs:    make(chan Job, buffer),
		results: make(chan any, buffer),
	}
}

// Start launches the worker goroutine. It stops when Close is called.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go func() {
		for job := range r.jobs {
			r.results <- r.run(ctx, job)
		}
		close(r.results)
	}()
}

func (r *Runner) run(ctx context.Context, job Job) (out any) {
	defer func() {
		if v := recover(); v != nil {
			out = JobPanic{Value: v}
		}
	}()
	return job(ctx)
}

// Enqueue submits a job. It reports false when the queue is full rather
// than blocking the caller.
func (r *Runner) Enqueue(job Job) bool {
	select {
	case r.jobs <- job:
		return true
	default:
		return false
	}
}

// Results exposes the ordered result stream.
func (r *Runner) Results() <-chan any {
	return r.results
}

// Close cancels the context handed to jobs and stops the worker once the
// queue drains.
func (r *Runner) Close() {
	if r.cancel != nil {
		r.cancel()
	}
	close(r.jobs)
}
