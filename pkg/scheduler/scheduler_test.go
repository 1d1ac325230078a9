package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTrigger(t *testing.T) {
	sched := NewManual()

	var runs int32
	sched.Every(time.Hour, "expire-points", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	require.NoError(t, sched.Trigger(context.Background(), "expire-points"))
	require.NoError(t, sched.Trigger(context.Background(), "expire-points"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestManualTriggerUnknownJob(t *testing.T) {
	sched := NewManual()
	assert.NoError(t, sched.Trigger(context.Background(), "missing"))
}

func TestManualTriggerPropagatesError(t *testing.T) {
	sched := NewManual()
	wantErr := errors.New("job failed")
	sched.Every(time.Hour, "failing", func(ctx context.Context) error { return wantErr })

	assert.ErrorIs(t, sched.Trigger(context.Background(), "failing"), wantErr)
}

func TestTickerRunsJobOnInterval(t *testing.T) {
	sched := NewTicker(nil)

	var runs int32
	sched.Every(10*time.Millisecond, "tick", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	sched.Start(context.Background())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestTickerStopHaltsJobs(t *testing.T) {
	sched := NewTicker(nil)

	var runs int32
	sched.Every(5*time.Millisecond, "tick", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	sched.Start(context.Background())
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 1
	}, time.Second, time.Millisecond)
	sched.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs))
}
