package models

import (
	"fmt"
	"time"
)

// AttendanceStatus labels the reconciled outcome of one employee shift.
type AttendanceStatus string

const (
	StatusOnTime               AttendanceStatus = "on_time"
	StatusTardy                AttendanceStatus = "tardy"
	StatusHalfDayAbsence       AttendanceStatus = "half_day_absence"
	StatusNCNS                 AttendanceStatus = "ncns"
	StatusAdvisedAbsence       AttendanceStatus = "advised_absence"
	StatusFailedBioIn          AttendanceStatus = "failed_bio_in"
	StatusFailedBioOut         AttendanceStatus = "failed_bio_out"
	StatusNonWorkDay           AttendanceStatus = "non_work_day"
	StatusOnLeave              AttendanceStatus = "on_leave"
	StatusPresentNoBio         AttendanceStatus = "present_no_bio"
	StatusUndertime            AttendanceStatus = "undertime"
	StatusUndertimeMoreThan1Hr AttendanceStatus = "undertime_more_than_hour"
	StatusNeedsManualReview    AttendanceStatus = "needs_manual_review"
)

// Valid returns true when the status is a supported primary value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusOnTime, StatusTardy, StatusHalfDayAbsence, StatusNCNS,
		StatusAdvisedAbsence, StatusFailedBioIn, StatusFailedBioOut,
		StatusNonWorkDay, StatusOnLeave, StatusPresentNoBio,
		StatusUndertime, StatusUndertimeMoreThan1Hr, StatusNeedsManualReview:
		return true
	default:
		return false
	}
}

// ValidSecondary returns true when the status may qualify a primary status.
func (s AttendanceStatus) ValidSecondary() bool {
	switch s {
	case StatusFailedBioOut, StatusUndertime, StatusUndertimeMoreThan1Hr:
		return true
	default:
		return false
	}
}

// Attendance is the reconciled record of one employee's one shift-date.
// (employee_id, shift_date) is unique; the reconciliation pipeline upserts it.
type Attendance struct {
	ID               string            `db:"id" json:"id"`
	EmployeeID       string            `db:"employee_id" json:"employee_id"`
	ScheduleID       string            `db:"schedule_id" json:"schedule_id"`
	ShiftDate        time.Time         `db:"shift_date" json:"shift_date"`
	ScheduledTimeIn  MinuteOfDay       `db:"scheduled_time_in" json:"scheduled_time_in"`
	ScheduledTimeOut MinuteOfDay       `db:"scheduled_time_out" json:"scheduled_time_out"`
	ActualTimeIn     *time.Time        `db:"actual_time_in" json:"actual_time_in,omitempty"`
	ActualTimeOut    *time.Time        `db:"actual_time_out" json:"actual_time_out,omitempty"`
	Status           AttendanceStatus  `db:"status" json:"status"`
	SecondaryStatus  *AttendanceStatus `db:"secondary_status" json:"secondary_status,omitempty"`
	TardyMinutes     int               `db:"tardy_minutes" json:"tardy_minutes"`
	UndertimeMinutes int               `db:"undertime_minutes" json:"undertime_minutes"`
	OvertimeMinutes  int               `db:"overtime_minutes" json:"overtime_minutes"`
	IsAdvised        bool              `db:"is_advised" json:"is_advised"`
	IsSetHome        bool              `db:"is_set_home" json:"is_set_home"`
	IsCrossSiteBio   bool              `db:"is_cross_site_bio" json:"is_cross_site_bio"`
	AdminVerified    bool              `db:"admin_verified" json:"admin_verified"`
	Notes            *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

// Validate rejects invalid status combinations before persistence.
func (a *Attendance) Validate() error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid attendance status %q", a.Status)
	}
	if a.SecondaryStatus != nil {
		if !a.SecondaryStatus.ValidSecondary() {
			return fmt.Errorf("invalid secondary status %q", *a.SecondaryStatus)
		}
		if *a.SecondaryStatus == a.Status {
			return fmt.Errorf("secondary status duplicates primary status %q", a.Status)
		}
	}
	if a.EmployeeID == "" {
		return fmt.Errorf("attendance requires an employee id")
	}
	if a.ShiftDate.IsZero() {
		return fmt.Errorf("attendance requires a shift date")
	}
	return nil
}

// AttendanceFilter scopes listing queries.
type AttendanceFilter struct {
	EmployeeID string
	Status     *AttendanceStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
