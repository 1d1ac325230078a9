package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
)

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CachedScheduleSource memoises active-schedule lookups. Reconciliation asks
// for the same schedule once per date per employee, so even a short TTL cuts
// most of the repeated queries in a batch run. Cache failures degrade to the
// underlying source.
type CachedScheduleSource struct {
	inner  scheduleSource
	cache  scheduleCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedScheduleSource wraps source with a read-through cache.
func NewCachedScheduleSource(source scheduleSource, cache scheduleCache, ttl time.Duration, logger *zap.Logger) *CachedScheduleSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedScheduleSource{inner: source, cache: cache, ttl: ttl, logger: logger}
}

type cachedSchedule struct {
	Schedule *models.ShiftSchedule `json:"schedule"`
}

// ActiveForDate returns the schedule covering the date, consulting the cache
// first. Negative results are cached too so employees without a schedule do
// not hammer the database on every date of the window.
func (s *CachedScheduleSource) ActiveForDate(ctx context.Context, employeeID string, date time.Time) (*models.ShiftSchedule, error) {
	key := scheduleCacheKey(employeeID, date)

	var cached cachedSchedule
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached.Schedule, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Sugar().Warnw("schedule cache read failed", "key", key, "error", err)
	}

	schedule, err := s.inner.ActiveForDate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	if setErr := s.cache.Set(ctx, key, cachedSchedule{Schedule: schedule}, s.ttl); setErr != nil {
		s.logger.Sugar().Warnw("schedule cache write failed", "key", key, "error", setErr)
	}
	return schedule, nil
}

// Invalidate drops all cached lookups for an employee, for use when their
// schedule assignment changes.
func (s *CachedScheduleSource) Invalidate(ctx context.Context, employeeID string) error {
	return s.cache.DeleteByPattern(ctx, fmt.Sprintf("schedule:%s:*", employeeID))
}

func scheduleCacheKey(employeeID string, date time.Time) string {
	return fmt.Sprintf("schedule:%s:%s", employeeID, models.DateOf(date).Format("2006-01-02"))
}
