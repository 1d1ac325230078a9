package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

func TestResolveTimeInOutSameDay(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-02", "07:58"),
		scanAt(t, "2026-03-02", "12:01"),
		scanAt(t, "2026-03-02", "17:04"),
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-02"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	require.NotNil(t, resolved.TimeOut)
	assert.Equal(t, "2026-03-02T07:58", resolved.TimeIn.ID)
	assert.Equal(t, "2026-03-02T17:04", resolved.TimeOut.ID)
}

// A lone scan is always the time-in, even when it lands close to the
// scheduled time-out. The missing side is reported as absent, not guessed.
func TestResolveTimeInOutSingleLateScan(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-02", "16:45"),
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-02"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	assert.Equal(t, "2026-03-02T16:45", resolved.TimeIn.ID)
	assert.Nil(t, resolved.TimeOut)
}

func TestResolveTimeInOutEmptyBucket(t *testing.T) {
	schedule := scheduleFor(t, "08:00", "17:00")
	resolved := ResolveTimeInOut(date(t, "2026-03-02"), nil, schedule)
	assert.Nil(t, resolved.TimeIn)
	assert.Nil(t, resolved.TimeOut)
}

func TestResolveTimeInOutNextDay(t *testing.T) {
	schedule := scheduleFor(t, "22:00", "07:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-02", "21:55"),
		scanAt(t, "2026-03-02", "21:57"), // double scan, earliest wins
		scanAt(t, "2026-03-03", "06:58"),
		scanAt(t, "2026-03-03", "07:03"), // double scan, latest wins
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-02"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	require.NotNil(t, resolved.TimeOut)
	assert.Equal(t, "2026-03-02T21:55", resolved.TimeIn.ID)
	assert.Equal(t, "2026-03-03T07:03", resolved.TimeOut.ID)
}

func TestResolveTimeInOutNextDayMissingOut(t *testing.T) {
	schedule := scheduleFor(t, "22:00", "07:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-02", "22:02"),
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-02"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	assert.Equal(t, "2026-03-02T22:02", resolved.TimeIn.ID)
	assert.Nil(t, resolved.TimeOut)
}

func TestResolveTimeInOutGraveyard(t *testing.T) {
	schedule := scheduleFor(t, "00:00", "09:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-03", "22:28"),
		scanAt(t, "2026-03-04", "08:58"),
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-03"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	require.NotNil(t, resolved.TimeOut)
	assert.Equal(t, "2026-03-03T22:28", resolved.TimeIn.ID)
	assert.Equal(t, "2026-03-04T08:58", resolved.TimeOut.ID)
}

// Scans past the scheduled time-out of a graveyard shift belong to nobody in
// this bucket; they must not be promoted to the time-out side.
func TestResolveTimeInOutGraveyardIgnoresLateOutSide(t *testing.T) {
	schedule := scheduleFor(t, "00:00", "09:00")
	bucket := []models.BiometricScan{
		scanAt(t, "2026-03-03", "22:28"),
		scanAt(t, "2026-03-04", "10:30"),
	}

	resolved := ResolveTimeInOut(date(t, "2026-03-03"), bucket, schedule)

	require.NotNil(t, resolved.TimeIn)
	assert.Nil(t, resolved.TimeOut)
}
