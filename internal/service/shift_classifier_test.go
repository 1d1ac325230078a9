package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

func mustMinute(t *testing.T, raw string) models.MinuteOfDay {
	t.Helper()
	m, err := models.ParseMinuteOfDay(raw)
	require.NoError(t, err)
	return m
}

func TestClassifyShiftPatternSameDay(t *testing.T) {
	cases := []struct {
		name    string
		timeIn  string
		timeOut string
	}{
		{"office hours", "08:00", "17:00"},
		{"late morning start", "10:30", "19:30"},
		{"afternoon shift", "14:00", "23:00"},
		{"early but past cutoff", "05:00", "14:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pattern := ClassifyShiftPattern(mustMinute(t, tc.timeIn), mustMinute(t, tc.timeOut))
			assert.False(t, pattern.NextDay)
			assert.False(t, pattern.Graveyard)
			assert.True(t, pattern.Window.IsZero())
		})
	}
}

func TestClassifyShiftPatternNextDay(t *testing.T) {
	cases := []struct {
		name        string
		timeIn      string
		timeOut     string
		windowStart string
	}{
		{"evening into morning", "22:00", "07:00", "22:00"},
		{"out equals in", "15:00", "15:00", "15:00"},
		{"half hour start rounds to hour", "21:30", "06:30", "21:00"},
		{"late night start", "23:30", "08:30", "23:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pattern := ClassifyShiftPattern(mustMinute(t, tc.timeIn), mustMinute(t, tc.timeOut))
			assert.True(t, pattern.NextDay)
			assert.False(t, pattern.Graveyard)
			assert.Equal(t, mustMinute(t, tc.windowStart), pattern.Window.Start)
			assert.Equal(t, models.MinuteOfDay(24*60), pattern.Window.End)
		})
	}
}

func TestClassifyShiftPatternGraveyard(t *testing.T) {
	for _, timeIn := range []string{"00:00", "01:30", "04:30"} {
		t.Run(timeIn, func(t *testing.T) {
			pattern := ClassifyShiftPattern(mustMinute(t, timeIn), mustMinute(t, "09:00"))
			assert.True(t, pattern.NextDay)
			assert.True(t, pattern.Graveyard)
			assert.Equal(t, mustMinute(t, "20:00"), pattern.Window.Start)
		})
	}

	// 05:00 is the cutoff: starts at or past it are ordinary shifts.
	pattern := ClassifyShiftPattern(mustMinute(t, "05:00"), mustMinute(t, "14:00"))
	assert.False(t, pattern.Graveyard)
	assert.False(t, pattern.NextDay)
}

// Every half-hour-aligned nine-hour shift must classify consistently. The
// expectation is stated independently of the classifier: a nine-hour shift
// wraps past midnight exactly when it starts at 15:00 or later, and graveyard
// starts precede 05:00.
func TestClassifyShiftPatternNineHourGrid(t *testing.T) {
	nextDay, graveyard := 0, 0
	for start := 0; start < 24*60; start += 30 {
		timeIn := models.MinuteOfDay(start)
		timeOut := models.MinuteOfDay((start + 9*60) % (24 * 60))
		pattern := ClassifyShiftPattern(timeIn, timeOut)

		assert.Equal(t, start >= 15*60 || start < 5*60, pattern.NextDay, "start %s", timeIn)
		assert.Equal(t, start < 5*60, pattern.Graveyard, "start %s", timeIn)
		if pattern.NextDay {
			nextDay++
		}
		if pattern.Graveyard {
			graveyard++
		}
	}
	assert.Equal(t, 28, nextDay)
	assert.Equal(t, 10, graveyard)

	// Boundary patterns pinned literally.
	sameDay := ClassifyShiftPattern(mustMinute(t, "05:00"), mustMinute(t, "14:00"))
	assert.False(t, sameDay.NextDay)
	assert.False(t, sameDay.Graveyard)

	wraps := ClassifyShiftPattern(mustMinute(t, "15:00"), mustMinute(t, "00:00"))
	assert.True(t, wraps.NextDay)
	assert.False(t, wraps.Graveyard)

	early := ClassifyShiftPattern(mustMinute(t, "04:30"), mustMinute(t, "13:30"))
	assert.True(t, early.NextDay)
	assert.True(t, early.Graveyard)
}

func TestHourWindowContains(t *testing.T) {
	w := HourWindow{Start: mustMinute(t, "20:00"), End: models.MinuteOfDay(24 * 60)}
	assert.True(t, w.Contains(mustMinute(t, "20:00")))
	assert.True(t, w.Contains(mustMinute(t, "23:59")))
	assert.False(t, w.Contains(mustMinute(t, "19:59")))
	assert.False(t, w.Contains(mustMinute(t, "00:00")))
}
