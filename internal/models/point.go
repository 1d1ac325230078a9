package models

import "time"

// PointType classifies a disciplinary violation charge.
type PointType string

const (
	PointWholeDayAbsence      PointType = "whole_day_absence"
	PointHalfDayAbsence       PointType = "half_day_absence"
	PointUndertimeMoreThan1Hr PointType = "undertime_more_than_hour"
	PointUndertime            PointType = "undertime"
	PointTardy                PointType = "tardy"
)

// Valid returns true for supported point types.
func (t PointType) Valid() bool {
	switch t {
	case PointWholeDayAbsence, PointHalfDayAbsence, PointUndertimeMoreThan1Hr, PointUndertime, PointTardy:
		return true
	default:
		return false
	}
}

// Value returns the point weight charged for the violation type.
func (t PointType) Value() float64 {
	switch t {
	case PointWholeDayAbsence:
		return 1.00
	case PointHalfDayAbsence, PointUndertimeMoreThan1Hr:
		return 0.50
	case PointUndertime, PointTardy:
		return 0.25
	default:
		return 0
	}
}

// ExpirationType records which roll-off rule retired a point.
type ExpirationType string

const (
	ExpirationSRO  ExpirationType = "sro"
	ExpirationGBRO ExpirationType = "gbro"
	ExpirationNone ExpirationType = "none"
)

// Valid returns true for supported expiration types.
func (t ExpirationType) Valid() bool {
	switch t {
	case ExpirationSRO, ExpirationGBRO, ExpirationNone:
		return true
	default:
		return false
	}
}

// AttendancePoint is one disciplinary violation charge derived from an
// Attendance row. (user_id, shift_date, point_type) is unique. The point
// engine never deletes rows; expiration and excusal only flip state.
type AttendancePoint struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	AttendanceID    string         `db:"attendance_id" json:"attendance_id"`
	ShiftDate       time.Time      `db:"shift_date" json:"shift_date"`
	Type            PointType      `db:"point_type" json:"point_type"`
	Points          float64        `db:"points" json:"points"`
	ExpirationType  ExpirationType `db:"expiration_type" json:"expiration_type"`
	ExpiresAt       time.Time      `db:"expires_at" json:"expires_at"`
	GBROExpiresAt   *time.Time     `db:"gbro_expires_at" json:"gbro_expires_at,omitempty"`
	IsExpired       bool           `db:"is_expired" json:"is_expired"`
	ExpiredAt       *time.Time     `db:"expired_at" json:"expired_at,omitempty"`
	EligibleForGBRO bool           `db:"eligible_for_gbro" json:"eligible_for_gbro"`
	GBROBatchID     *string        `db:"gbro_batch_id" json:"gbro_batch_id,omitempty"`
	IsExcused       bool           `db:"is_excused" json:"is_excused"`
	ExcusedBy       *string        `db:"excused_by" json:"excused_by,omitempty"`
	ExcusedAt       *time.Time     `db:"excused_at" json:"excused_at,omitempty"`
	ExcuseReason    *string        `db:"excuse_reason" json:"excuse_reason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// Active reports whether the point still counts against the user.
func (p AttendancePoint) Active() bool {
	return !p.IsExpired && !p.IsExcused
}

// PointFilter scopes point listing queries.
type PointFilter struct {
	UserID    string
	Type      *PointType
	Expired   *bool
	Excused   *bool
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ResetFilter selects expired points for a reset operation.
type ResetFilter struct {
	UserID   string
	Type     *PointType
	DateFrom *time.Time
	DateTo   *time.Time
}

// ExpirationSummary reports one expiration run's effect.
type ExpirationSummary struct {
	SROExpired  int  `json:"sro_expired"`
	GBROExpired int  `json:"gbro_expired"`
	DryRun      bool `json:"dry_run"`
}
