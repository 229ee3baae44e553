package workload

import (
	"context"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hypertable/internal/sentinel"
)

// JobFunc is a function that can be enqueued in a worker pool.
type JobFunc func(ctx context.Context) error

// WorkerPool is a pool of workers that can execute jobs concurrently.
// Jobs receive the pool context; once it is done, queued jobs are dropped.
type WorkerPool struct {
	ctx     context.Context
	workers int
	jobs    chan JobFunc
	wg      sync.WaitGroup
	running sync.WaitGroup
	once    sync.Once
	errs    *ewrap.ErrorGroup
}

// NewWorkerPool creates a new worker pool with the given number of workers.
// A non-positive count starts a single worker.
func NewWorkerPool(ctx context.Context, workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	pool := &WorkerPool{
		ctx:     ctx,
		workers: workers,
		jobs:    make(chan JobFunc, workers),
		errs:    ewrap.NewErrorGroup(),
	}
	pool.start()

	return pool
}

// Workers returns the number of worker goroutines.
func (pool *WorkerPool) Workers() int {
	return pool.workers
}

// Enqueue adds a job to the worker pool. It blocks while the queue is full and
// fails once the pool context is done.
func (pool *WorkerPool) Enqueue(job JobFunc) error {
	pool.wg.Add(1)

	select {
	case pool.jobs <- job:
		return nil
	case <-pool.ctx.Done():
		pool.wg.Done()

		return sentinel.ErrTimeoutOrCanceled
	}
}

// Wait waits for all enqueued jobs, stops the workers and returns the errors
// the jobs reported, if any. The pool cannot be reused afterwards.
func (pool *WorkerPool) Wait() error {
	pool.wg.Wait()

	pool.once.Do(func() {
		close(pool.jobs)
	})
	pool.running.Wait()

	if pool.ctx.Err() != nil {
		pool.errs.Add(sentinel.ErrTimeoutOrCanceled)
	}

	return pool.errs.ErrorOrNil()
}

// start starts the worker pool.
func (pool *WorkerPool) start() {
	pool.running.Add(pool.workers)

	for range pool.workers {
		go pool.worker()
	}
}

// worker is the main loop executed by each worker goroutine.
func (pool *WorkerPool) worker() {
	defer pool.running.Done()

	for job := range pool.jobs {
		if pool.ctx.Err() == nil {
			err := job(pool.ctx)
			if err != nil {
				pool.errs.Add(err)
			}
		}

		pool.wg.Done()
	}
}
