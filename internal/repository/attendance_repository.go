package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// AttendanceRepository handles persistence for reconciled attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, schedule_id, shift_date, scheduled_time_in, scheduled_time_out,
actual_time_in, actual_time_out, status, secondary_status, tardy_minutes, undertime_minutes, overtime_minutes,
is_advised, is_set_home, is_cross_site_bio, admin_verified, notes, created_at, updated_at`

// Upsert inserts or refreshes the row for (employee_id, shift_date). Runs on
// the provided querier so callers can scope a whole employee window to one
// transaction.
func (r *AttendanceRepository) Upsert(ctx context.Context, q sqlx.ExtContext, record *models.Attendance) (*models.Attendance, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO attendance (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT (employee_id, shift_date)
DO UPDATE SET schedule_id = EXCLUDED.schedule_id,
    scheduled_time_in = EXCLUDED.scheduled_time_in,
    scheduled_time_out = EXCLUDED.scheduled_time_out,
    actual_time_in = EXCLUDED.actual_time_in,
    actual_time_out = EXCLUDED.actual_time_out,
    status = EXCLUDED.status,
    secondary_status = EXCLUDED.secondary_status,
    tardy_minutes = EXCLUDED.tardy_minutes,
    undertime_minutes = EXCLUDED.undertime_minutes,
    overtime_minutes = EXCLUDED.overtime_minutes,
    is_advised = EXCLUDED.is_advised,
    is_set_home = EXCLUDED.is_set_home,
    is_cross_site_bio = EXCLUDED.is_cross_site_bio,
    notes = EXCLUDED.notes,
    updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns, attendanceColumns)

	row := q.QueryRowxContext(ctx, query,
		record.ID, record.EmployeeID, record.ScheduleID, record.ShiftDate,
		record.ScheduledTimeIn, record.ScheduledTimeOut,
		record.ActualTimeIn, record.ActualTimeOut,
		record.Status, record.SecondaryStatus,
		record.TardyMinutes, record.UndertimeMinutes, record.OvertimeMinutes,
		record.IsAdvised, record.IsSetHome, record.IsCrossSiteBio, record.AdminVerified,
		record.Notes, record.CreatedAt, record.UpdatedAt,
	)
	var stored models.Attendance
	if err := row.StructScan(&stored); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// List returns attendance rows matching the filter with a total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("shift_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("shift_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	sortColumn := "shift_date"
	if filter.SortBy == "status" {
		sortColumn = "status"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		attendanceColumns, whereClause, sortColumn, order, size, offset)

	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// FindByEmployeeDate fetches the single reconciled row for a shift date.
// Returns nil without error when no row exists yet.
func (r *AttendanceRepository) FindByEmployeeDate(ctx context.Context, employeeID string, shiftDate time.Time) (*models.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE employee_id = $1 AND shift_date = $2 LIMIT 1`, attendanceColumns)
	var row models.Attendance
	if err := r.db.GetContext(ctx, &row, query, employeeID, models.DateOf(shiftDate)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &row, nil
}

// Tx runs fn inside a transaction.
func (r *AttendanceRepository) Tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return InTx(ctx, r.db, fn)
}
