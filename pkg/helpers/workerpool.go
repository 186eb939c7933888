package helpers

import (
	"context"
	"sync"
	"time"
)

// Job represents a unit of work.
type Job[T any] interface {
	Process(ctx context.Context) (T, error)
}

// Logger is the subset of *log.Logger the pool reports progress through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// WorkerPool runs jobs on a fixed number of workers pulling from a shared queue.
type WorkerPool[J Job[R], R any] struct {
	workers int
	logger  Logger
}

// NewWorkerPool creates a pool with at least one worker.
func NewWorkerPool[J Job[R], R any](workers int, logger Logger) *WorkerPool[J, R] {
	return &WorkerPool[J, R]{
		workers: max(workers, 1),
		logger:  logger,
	}
}

// ProcessResult contains the result of processing a job.
type ProcessResult[J Job[R], R any] struct {
	Job    J
	Result R
	Error  error
}

// Process executes jobs and streams their results in completion order. The
// channel is closed once every worker has exited. A non-positive timeout
// leaves jobs bounded only by ctx.
func (wp *WorkerPool[J, R]) Process(
	ctx context.Context,
	jobs []J,
	timeout time.Duration,
) <-chan ProcessResult[J, R] {
	jobQueue := make(chan J, len(jobs))
	results := make(chan ProcessResult[J, R], len(jobs))

	for _, job := range jobs {
		jobQueue <- job
	}
	close(jobQueue)

	workers := min(wp.workers, max(len(jobs), 1))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go wp.worker(ctx, i, jobQueue, results, timeout, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (wp *WorkerPool[J, R]) worker(
	ctx context.Context,
	id int,
	jobs <-chan J,
	results chan<- ProcessResult[J, R],
	timeout time.Duration,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	processedCount := 0
	startTime := time.Now()

	for job := range jobs {
		jobStart := time.Now()

		jobCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			jobCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		result, err := job.Process(jobCtx)
		cancel()

		processingTime := time.Since(jobStart)
		if err != nil {
			wp.logger.Debugf("Worker %d: Job failed after %v: %v", id, processingTime, err)
		} else {
			wp.logger.Debugf("Worker %d: Job completed in %v", id, processingTime)
			processedCount++
		}

		// results is buffered for every job, so this never blocks
		results <- ProcessResult[J, R]{Job: job, Result: result, Error: err}
	}

	if processedCount > 0 {
		totalTime := time.Since(startTime)
		wp.logger.Debugf("Worker %d: Completed %d jobs in %v (avg: %v/job)",
			id, processedCount, totalTime, totalTime/time.Duration(processedCount))
	}
}
