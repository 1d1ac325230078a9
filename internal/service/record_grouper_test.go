package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", raw)
	require.NoError(t, err)
	return d
}

func scanAt(t *testing.T, date, clock string) models.BiometricScan {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	require.NoError(t, err)
	return models.BiometricScan{ID: date + "T" + clock, EmployeeID: "emp-1", ScannedAt: ts.UTC()}
}

func scheduleFor(t *testing.T, timeIn, timeOut string) models.ShiftSchedule {
	t.Helper()
	return models.ShiftSchedule{
		ID:         "sched-1",
		EmployeeID: "emp-1",
		SiteID:     "site-a",
		TimeIn:     mustMinute(t, timeIn),
		TimeOut:    mustMinute(t, timeOut),
		WorkDays: models.NewWeekdays(
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		),
		GracePeriodMinutes: 5,
		Active:             true,
	}
}

func TestGroupScansSameDayShift(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	scans := []models.BiometricScan{
		scanAt(t, "2026-03-02", "07:58"),
		scanAt(t, "2026-03-02", "17:04"),
		scanAt(t, "2026-03-03", "08:01"),
	}

	grouped := GroupScans(scans, schedule)

	require.Len(t, grouped.Buckets, 2)
	assert.Len(t, grouped.Buckets[date(t, "2026-03-02")], 2)
	assert.Len(t, grouped.Buckets[date(t, "2026-03-03")], 1)
	assert.Empty(t, grouped.Unassigned)
}

func TestGroupScansNextDayShift(t *testing.T) {
	schedule := scheduleFor(t, "22:00", "07:00")
	scans := []models.BiometricScan{
		scanAt(t, "2026-03-02", "21:55"), // time-in for Mar 2 shift
		scanAt(t, "2026-03-03", "07:02"), // time-out attributed back to Mar 2
		scanAt(t, "2026-03-03", "22:10"), // time-in for Mar 3 shift
	}

	grouped := GroupScans(scans, schedule)

	monday := grouped.Buckets[date(t, "2026-03-02")]
	require.Len(t, monday, 2)
	assert.Equal(t, "2026-03-02T21:55", monday[0].ID)
	assert.Equal(t, "2026-03-03T07:02", monday[1].ID)
	assert.Len(t, grouped.Buckets[date(t, "2026-03-03")], 1)
}

func TestGroupScansGraveyardShift(t *testing.T) {
	// A 00:00-09:00 shift on March 3 is clocked in the evening of March 3
	// and out the morning of March 4.
	schedule := scheduleFor(t, "00:00", "09:00")
	scans := []models.BiometricScan{
		scanAt(t, "2026-03-03", "22:28"),
		scanAt(t, "2026-03-04", "08:58"),
	}

	grouped := GroupScans(scans, schedule)

	bucket := grouped.Buckets[date(t, "2026-03-03")]
	require.Len(t, bucket, 2)
	assert.Equal(t, "2026-03-03T22:28", bucket[0].ID)
	assert.Equal(t, "2026-03-04T08:58", bucket[1].ID)
	assert.Empty(t, grouped.Unassigned)
}

func TestGroupScansGraveyardMiddayScanUnassigned(t *testing.T) {
	schedule := scheduleFor(t, "00:00", "09:00")
	scans := []models.BiometricScan{
		scanAt(t, "2026-03-03", "13:30"),
	}

	grouped := GroupScans(scans, schedule)

	assert.Empty(t, grouped.Buckets)
	require.Len(t, grouped.Unassigned, 1)
	assert.Equal(t, "2026-03-03T13:30", grouped.Unassigned[0].ID)
}

func TestGroupScansSortsInput(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	scans := []models.BiometricScan{
		scanAt(t, "2026-03-02", "17:04"),
		scanAt(t, "2026-03-02", "07:58"),
	}

	grouped := GroupScans(scans, schedule)

	bucket := grouped.Buckets[date(t, "2026-03-02")]
	require.Len(t, bucket, 2)
	assert.True(t, bucket[0].ScannedAt.Before(bucket[1].ScannedAt))
}

func TestGroupedScansShiftDatesSorted(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	grouped := GroupScans([]models.BiometricScan{
		scanAt(t, "2026-03-04", "08:00"),
		scanAt(t, "2026-03-02", "08:00"),
		scanAt(t, "2026-03-03", "08:00"),
	}, schedule)

	dates := grouped.ShiftDates()
	require.Len(t, dates, 3)
	assert.Equal(t, date(t, "2026-03-02"), dates[0])
	assert.Equal(t, date(t, "2026-03-04"), dates[2])
}
