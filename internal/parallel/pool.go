// Package parallel runs independent solver jobs on a bounded set of
// goroutines. A Solver is not safe for concurrent use, so every job owns
// its own solver; the pool only bounds how many run at once.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// WorkerPool manages a fixed number of goroutines fed from a buffered
// task channel. Submit blocks when every worker is busy and the buffer is
// full.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a pool with maxWorkers goroutines. If maxWorkers
// is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			task()
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit queues a task. It fails when ctx is done or the pool has been
// shut down before the task could be queued.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops the workers once their current task is done. Tasks
// still queued are dropped; callers that need every task to run wait for
// them before shutting down, as RunAll does.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when submitting to a pool that was shut down.
var ErrPoolShutdown = errors.New("parallel: worker pool has been shut down")

// Job is one unit of work, typically a complete solver run.
type Job func(ctx context.Context) error

// RunAll runs jobs with at most maxWorkers of them at a time and waits for
// all of them. The returned error combines the errors of every failed job
// and the submission error, if ctx ended before all jobs were queued.
func RunAll(ctx context.Context, maxWorkers int, jobs []Job) error {
	pool := NewWorkerPool(maxWorkers)
	defer pool.Shutdown()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, job := range jobs {
		job := job
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			if err := job(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
			break
		}
	}
	wg.Wait()
	return errs
}
