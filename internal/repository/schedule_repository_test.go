package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepositoryActiveForDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .* FROM shift_schedules").
		WithArgs("emp-1", date).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "site_id", "time_in", "time_out", "work_days",
			"grace_period_minutes", "effective_date", "end_date", "active", "created_at", "updated_at",
		}).AddRow(
			"sched-1", "emp-1", "site-a", 540, 1080, "1,2,3,4,5",
			5, date.AddDate(0, -6, 0), nil, true, now, now,
		))

	schedule, err := repo.ActiveForDate(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Equal(t, "sched-1", schedule.ID)
	assert.True(t, schedule.WorksOn(time.Monday))
	assert.False(t, schedule.WorksOn(time.Sunday))
	assert.Equal(t, 540, int(schedule.TimeIn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryActiveForDateNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT .* FROM shift_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	schedule, err := repo.ActiveForDate(context.Background(), "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, schedule)
	assert.NoError(t, mock.ExpectationsWereMet())
}
