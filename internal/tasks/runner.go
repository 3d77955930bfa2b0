// Package tasks runs detached background jobs for the session manager. Jobs
// are fire-and-forget relative to their enqueuer: failures flow to an error
// callback where they are logged and dropped, never back to the caller.
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is a unit of background work. The context passed to Run is detached
// from the enqueuer's context: an enqueuer returning early must not cancel
// the job.
type Job func(ctx context.Context) error

// Config controls runner buffering behavior.
type Config struct {
	BufferSize int
	DropIfFull bool
}

// Runner asynchronously executes jobs on a single worker goroutine.
type Runner struct {
	cfg       Config
	onError   func(error)
	ch        chan Job
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewRunner starts a runner. onError receives each failed job's error; nil
// means failures are silently dropped.
func NewRunner(cfg Config, onError func(error)) *Runner {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	r := &Runner{
		cfg:     cfg,
		onError: onError,
		ch:      make(chan Job, cfg.BufferSize),
		done:    make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Runner) run() {
	defer r.wg.Done()

	for {
		select {
		case job := <-r.ch:
			r.execute(job)
		case <-r.done:
			for {
				select {
				case job := <-r.ch:
					r.execute(job)
				default:
					return
				}
			}
		}
	}
}

func (r *Runner) execute(job Job) {
	if job == nil {
		return
	}
	if err := job(context.Background()); err != nil && r.onError != nil {
		r.onError(err)
	}
}

// Enqueue schedules a job and reports whether it was accepted. A closed
// runner, or a full buffer with DropIfFull set, rejects the job.
func (r *Runner) Enqueue(job Job) bool {
	if r == nil || r.closed.Load() || job == nil {
		return false
	}

	if r.cfg.DropIfFull {
		select {
		case r.ch <- job:
			return true
		case <-r.done:
			return false
		default:
			r.dropped.Add(1)
			return false
		}
	}

	select {
	case r.ch <- job:
		return true
	case <-r.done:
		return false
	}
}

// Close drains queued jobs and stops the worker. Safe to call repeatedly.
func (r *Runner) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
		r.wg.Wait()
	})
}

// Dropped returns the number of jobs rejected due to a full buffer.
func (r *Runner) Dropped() uint64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}
