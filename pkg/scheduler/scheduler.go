package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs jobs on a recurring interval. Implementations may be driven
// by a ticker, an external cron, or a test harness.
type Scheduler interface {
	Every(interval time.Duration, name string, job Job)
	Start(ctx context.Context)
	Stop()
}

type entry struct {
	interval time.Duration
	name     string
	job      Job
}

// Ticker is the default Scheduler, driven by time.Ticker goroutines.
type Ticker struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries []entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewTicker constructs a ticker-driven scheduler.
func NewTicker(logger *zap.Logger) *Ticker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{logger: logger}
}

// Every registers a job to run on the given interval. Registration after
// Start has no effect until the next Start.
func (t *Ticker) Every(interval time.Duration, name string, job Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry{interval: interval, name: name, job: job})
}

// Start launches one goroutine per registered job. Safe to call once.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	for _, e := range t.entries {
		t.wg.Add(1)
		go t.loop(runCtx, e)
	}
	t.started = true
	t.logger.Sugar().Infow("scheduler started", "jobs", len(t.entries))
}

// Stop cancels all job loops and waits for them to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.started = false
	t.mu.Unlock()
	t.wg.Wait()
	t.logger.Sugar().Infow("scheduler stopped")
}

func (t *Ticker) loop(ctx context.Context, e entry) {
	defer t.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.job(ctx); err != nil {
				t.logger.Sugar().Errorw("scheduled job failed", "job", e.name, "error", err)
			}
		}
	}
}

// Manual is a Scheduler for tests and external triggers: jobs run only when
// Trigger is called.
type Manual struct {
	mu      sync.Mutex
	entries []entry
}

// NewManual constructs a manually driven scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Every registers a job; the interval is recorded but not acted on.
func (m *Manual) Every(interval time.Duration, name string, job Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{interval: interval, name: name, job: job})
}

// Start is a no-op for the manual scheduler.
func (m *Manual) Start(context.Context) {}

// Stop is a no-op for the manual scheduler.
func (m *Manual) Stop() {}

// Trigger runs the named job once, returning its error.
func (m *Manual) Trigger(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.name == name {
			return e.job(ctx)
		}
	}
	return nil
}
