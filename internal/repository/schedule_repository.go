package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// ScheduleRepository reads employee shift schedules. HR tooling owns their
// lifecycle; the engine only resolves the schedule active on a date.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ActiveForDate returns the schedule in effect for an employee on the given
// date, or nil when none is active. When overlapping schedules exist the
// most recently effective one wins.
func (r *ScheduleRepository) ActiveForDate(ctx context.Context, employeeID string, date time.Time) (*models.ShiftSchedule, error) {
	query := `SELECT id, employee_id, site_id, time_in, time_out, work_days, grace_period_minutes,
       effective_date, end_date, active, created_at, updated_at
FROM shift_schedules
WHERE employee_id = $1
  AND active = true
  AND effective_date <= $2
  AND (end_date IS NULL OR end_date >= $2)
ORDER BY effective_date DESC
LIMIT 1`

	var schedule models.ShiftSchedule
	if err := r.db.GetContext(ctx, &schedule, query, employeeID, models.DateOf(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active schedule: %w", err)
	}
	schedule.WorkDays = models.DecodeWorkDays(schedule.WorkDaysRaw)
	return &schedule, nil
}
