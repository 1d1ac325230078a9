package models

import (
	"strconv"
	"strings"
	"time"
)

// ShiftSchedule is an employee's standing shift definition. The engine only
// reads the schedule active on a given date; HR tooling owns the lifecycle.
type ShiftSchedule struct {
	ID                 string      `db:"id" json:"id"`
	EmployeeID         string      `db:"employee_id" json:"employee_id"`
	SiteID             string      `db:"site_id" json:"site_id"`
	TimeIn             MinuteOfDay `db:"time_in" json:"time_in"`
	TimeOut            MinuteOfDay `db:"time_out" json:"time_out"`
	WorkDays           Weekdays    `db:"-" json:"work_days"`
	WorkDaysRaw        string      `db:"work_days" json:"-"`
	GracePeriodMinutes int         `db:"grace_period_minutes" json:"grace_period_minutes"`
	EffectiveDate      time.Time   `db:"effective_date" json:"effective_date"`
	EndDate            *time.Time  `db:"end_date" json:"end_date,omitempty"`
	Active             bool        `db:"active" json:"active"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// ShiftMinutes returns the scheduled shift length in minutes, accounting for
// shifts that wrap past midnight.
func (s ShiftSchedule) ShiftMinutes() int {
	if s.TimeOut > s.TimeIn {
		return int(s.TimeOut - s.TimeIn)
	}
	return int(24*60 - s.TimeIn + s.TimeOut)
}

// WorksOn reports whether the schedule covers the given weekday.
func (s ShiftSchedule) WorksOn(day time.Weekday) bool {
	return s.WorkDays.Contains(day)
}

// EncodeWorkDays serialises the weekday set as comma-joined ints (0=Sunday).
func EncodeWorkDays(days Weekdays) string {
	parts := make([]string, 0, len(days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if days.Contains(d) {
			parts = append(parts, strconv.Itoa(int(d)))
		}
	}
	return strings.Join(parts, ",")
}

// DecodeWorkDays parses the comma-joined representation back into a set.
func DecodeWorkDays(raw string) Weekdays {
	set := Weekdays{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		set[time.Weekday(n)] = true
	}
	return set
}

// CoversDate reports whether the schedule is active and in effect on date.
func (s ShiftSchedule) CoversDate(date time.Time) bool {
	if !s.Active {
		return false
	}
	d := DateOf(date)
	if d.Before(DateOf(s.EffectiveDate)) {
		return false
	}
	if s.EndDate != nil && d.After(DateOf(*s.EndDate)) {
		return false
	}
	return true
}
