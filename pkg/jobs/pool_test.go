package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 3, RetryDelay: time.Millisecond})

	var mu sync.Mutex
	seen := map[string]bool{}
	tasks := []Task{}
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		key := key
		tasks = append(tasks, Task{Key: key, Run: func(ctx context.Context) error {
			mu.Lock()
			seen[key] = true
			mu.Unlock()
			return nil
		}})
	}

	results := pool.Run(context.Background(), tasks)
	require.Len(t, results, 5)
	assert.Len(t, seen, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, 1, r.Attempts)
	}
}

func TestPoolRetriesFailedTask(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	var calls int32
	tasks := []Task{{Key: "flaky", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}}}

	results := pool.Run(context.Background(), tasks)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Attempts)
}

func TestPoolExhaustsRetries(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond})

	wantErr := errors.New("persistent")
	results := pool.Run(context.Background(), []Task{{Key: "broken", Run: func(ctx context.Context) error {
		return wantErr
	}}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, wantErr)
	assert.Equal(t, 2, results[0].Attempts)
}

func TestPoolReportsCancelledTasks(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, RetryDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	tasks := []Task{
		{Key: "first", Run: func(ctx context.Context) error {
			cancel()
			// Hold the only worker so the dispatcher sees the cancelled
			// context before another task can be handed out.
			time.Sleep(50 * time.Millisecond)
			return nil
		}},
		{Key: "second", Run: func(ctx context.Context) error { return nil }},
		{Key: "third", Run: func(ctx context.Context) error { return nil }},
	}

	results := pool.Run(ctx, tasks)
	require.Len(t, results, 3)

	cancelled := 0
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			cancelled++
		}
	}
	assert.GreaterOrEqual(t, cancelled, 1)
}

func TestPoolEmptyBatch(t *testing.T) {
	pool := NewPool(PoolConfig{})
	assert.Nil(t, pool.Run(context.Background(), nil))
}
