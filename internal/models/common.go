package models

import (
	"fmt"
	"time"
)

// Pagination describes standard list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// MinuteOfDay encodes a time of day as minutes since midnight [0, 1440).
type MinuteOfDay int

// NewMinuteOfDay builds a MinuteOfDay from hour/minute components.
func NewMinuteOfDay(hour, minute int) MinuteOfDay {
	return MinuteOfDay(hour*60 + minute)
}

// ParseMinuteOfDay parses "HH:MM" into a MinuteOfDay.
func ParseMinuteOfDay(raw string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return NewMinuteOfDay(t.Hour(), t.Minute()), nil
}

// Hour returns the hour component.
func (m MinuteOfDay) Hour() int {
	return int(m) / 60
}

// Minute returns the minute component.
func (m MinuteOfDay) Minute() int {
	return int(m) % 60
}

// String renders the value as "HH:MM".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.Minute())
}

// Valid reports whether the value lies within a single day.
func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m < 24*60
}

// On anchors the time of day onto the given calendar date (UTC).
func (m MinuteOfDay) On(date time.Time) time.Time {
	d := DateOf(date)
	return d.Add(time.Duration(m) * time.Minute)
}

// MinuteOfDayFrom extracts the time-of-day component of a timestamp.
func MinuteOfDayFrom(t time.Time) MinuteOfDay {
	return NewMinuteOfDay(t.Hour(), t.Minute())
}

// DateOf truncates a timestamp to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Weekdays is a set of working weekdays.
type Weekdays map[time.Weekday]bool

// NewWeekdays builds a set from the listed days.
func NewWeekdays(days ...time.Weekday) Weekdays {
	set := make(Weekdays, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// Contains reports membership of the given weekday.
func (w Weekdays) Contains(day time.Weekday) bool {
	return w[day]
}
