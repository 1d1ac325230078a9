package models

import "time"

// BiometricScan represents one raw clock event from a biometric device.
// Rows are created by the ingest pipeline and never mutated here.
type BiometricScan struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	SiteID     string    `db:"site_id" json:"site_id"`
	ScannedAt  time.Time `db:"scanned_at" json:"scanned_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ScanDate returns the calendar date the scan landed on.
func (s BiometricScan) ScanDate() time.Time {
	return DateOf(s.ScannedAt)
}

// TimeOfDay returns the time-of-day component of the scan.
func (s BiometricScan) TimeOfDay() MinuteOfDay {
	return MinuteOfDayFrom(s.ScannedAt)
}

// ScanFilter scopes scan queries to one employee and a date window.
type ScanFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}
