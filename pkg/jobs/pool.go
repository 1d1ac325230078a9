package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of batch work, keyed for reporting.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

// Result captures one task's outcome.
type Result struct {
	Key      string
	Err      error
	Attempts int
	Duration time.Duration
}

// PoolConfig configures worker pool behaviour.
type PoolConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Pool fans a fixed set of tasks out over a bounded number of goroutines and
// collects per-task results. Unlike a long-running queue, a Pool is built per
// batch and torn down when the batch completes.
type Pool struct {
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewPool builds a pool with the provided configuration.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

// Run executes every task and returns one Result per task, in completion
// order. Tasks still queued when ctx is cancelled are returned with ctx.Err()
// and never started.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task)
	results := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range queue {
				results <- p.execute(ctx, task)
			}
		}(i + 1)
	}

	pending := 0
dispatch:
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- task:
			pending++
		}
	}
	close(queue)

	// Tasks never dispatched are reported as cancelled.
	for _, task := range tasks[pending:] {
		results <- Result{Key: task.Key, Err: ctx.Err()}
	}

	wg.Wait()
	close(results)

	collected := make([]Result, 0, len(tasks))
	for r := range results {
		collected = append(collected, r)
	}
	return collected
}

func (p *Pool) execute(ctx context.Context, task Task) Result {
	start := time.Now()
	var err error
	attempts := 0
	for attempts <= p.maxRetries {
		attempts++
		err = task.Run(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		p.logger.Sugar().Warnw("task failed, retrying",
			"key", task.Key, "attempt", attempts, "error", err)

		timer := time.NewTimer(p.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{Key: task.Key, Err: ctx.Err(), Attempts: attempts, Duration: time.Since(start)}
		case <-timer.C:
		}
	}
	return Result{Key: task.Key, Err: err, Attempts: attempts, Duration: time.Since(start)}
}
