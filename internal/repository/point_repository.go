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

// PointRepository handles persistence for attendance points. Points are
// never physically deleted by the engine; expiration and excusal only flip
// state, and duplicate cleanup is a dedicated maintenance operation.
type PointRepository struct {
	db *sqlx.DB
}

// NewPointRepository constructs the repository.
func NewPointRepository(db *sqlx.DB) *PointRepository {
	return &PointRepository{db: db}
}

const pointColumns = `id, user_id, attendance_id, shift_date, point_type, points, expiration_type,
expires_at, gbro_expires_at, is_expired, expired_at, eligible_for_gbro, gbro_batch_id,
is_excused, excused_by, excused_at, excuse_reason, created_at, updated_at`

// Create inserts a point, returning false without error when a point for
// (user_id, shift_date, point_type) already exists. Concurrent reprocessing
// runs race on the unique index, not on application state.
func (r *PointRepository) Create(ctx context.Context, q sqlx.ExtContext, point *models.AttendancePoint) (bool, error) {
	now := time.Now().UTC()
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO attendance_points (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
ON CONFLICT (user_id, shift_date, point_type) DO NOTHING
RETURNING id`, pointColumns)

	var insertedID string
	err := q.QueryRowxContext(ctx, query,
		point.ID, point.UserID, point.AttendanceID, point.ShiftDate,
		point.Type, point.Points, point.ExpirationType,
		point.ExpiresAt, point.GBROExpiresAt,
		point.IsExpired, point.ExpiredAt,
		point.EligibleForGBRO, point.GBROBatchID,
		point.IsExcused, point.ExcusedBy, point.ExcusedAt, point.ExcuseReason,
		point.CreatedAt, point.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create point: %w", err)
	}
	return true, nil
}

// List returns points matching the filter with a total count.
func (r *PointRepository) List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Type != nil && filter.Type.Valid() {
		where = append(where, fmt.Sprintf("point_type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Expired != nil {
		where = append(where, fmt.Sprintf("is_expired = $%d", len(args)+1))
		args = append(args, *filter.Expired)
	}
	if filter.Excused != nil {
		where = append(where, fmt.Sprintf("is_excused = $%d", len(args)+1))
		args = append(args, *filter.Excused)
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

	query := fmt.Sprintf(`SELECT %s FROM attendance_points WHERE %s ORDER BY shift_date %s LIMIT %d OFFSET %d`,
		pointColumns, whereClause, order, size, offset)

	var rows []models.AttendancePoint
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list points: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_points WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count points: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches one point.
func (r *PointRepository) FindByID(ctx context.Context, id string) (*models.AttendancePoint, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_points WHERE id = $1 LIMIT 1`, pointColumns)
	var point models.AttendancePoint
	if err := r.db.GetContext(ctx, &point, query, id); err != nil {
		return nil, fmt.Errorf("find point: %w", err)
	}
	return &point, nil
}

// FindSRODue returns active points whose time-based deadline has passed.
// Expired and excused points are excluded at the query level, never
// re-evaluated and re-skipped branch by branch.
func (r *PointRepository) FindSRODue(ctx context.Context, asOf time.Time) ([]models.AttendancePoint, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_points
WHERE is_expired = false AND is_excused = false AND expires_at <= $1
ORDER BY user_id, shift_date ASC`, pointColumns)

	var rows []models.AttendancePoint
	if err := r.db.SelectContext(ctx, &rows, query, models.DateOf(asOf)); err != nil {
		return nil, fmt.Errorf("find sro due points: %w", err)
	}
	return rows, nil
}

// FindActiveEligible returns every active GBRO-eligible point grouped by
// user via its ordering: user ascending, most recent shift date first.
func (r *PointRepository) FindActiveEligible(ctx context.Context) ([]models.AttendancePoint, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_points
WHERE is_expired = false AND is_excused = false AND eligible_for_gbro = true
ORDER BY user_id, shift_date DESC`, pointColumns)

	var rows []models.AttendancePoint
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("find gbro-eligible points: %w", err)
	}
	return rows, nil
}

// MarkExpiredSRO expires a single point under the standard roll-off. The
// is_expired guard makes double application a no-op.
func (r *PointRepository) MarkExpiredSRO(ctx context.Context, q sqlx.ExtContext, id string, at time.Time) (bool, error) {
	query := `UPDATE attendance_points
SET is_expired = true, expired_at = $2, expiration_type = $3, updated_at = $2
WHERE id = $1 AND is_expired = false AND is_excused = false`

	res, err := q.ExecContext(ctx, query, id, at.UTC(), models.ExpirationSRO)
	if err != nil {
		return false, fmt.Errorf("mark point sro-expired: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark point sro-expired: %w", err)
	}
	return affected == 1, nil
}

// MarkExpiredGBRO expires the given points as one good-behavior batch
// sharing a batch id. Callers wrap the batch in a transaction so a partial
// batch never persists.
func (r *PointRepository) MarkExpiredGBRO(ctx context.Context, q sqlx.ExtContext, ids []string, batchID string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := []interface{}{at.UTC(), models.ExpirationGBRO, batchID}
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE attendance_points
SET is_expired = true, expired_at = $1, expiration_type = $2, gbro_batch_id = $3, gbro_expires_at = $1, updated_at = $1
WHERE id IN (%s) AND is_expired = false AND is_excused = false AND eligible_for_gbro = true`,
		strings.Join(placeholders, ", "))

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark points gbro-expired: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark points gbro-expired: %w", err)
	}
	return int(affected), nil
}

// ResetExpired clears expiration state for matching expired points and
// recomputes expires_at from shift_date, preserving the original time-based
// deadline rather than granting a fresh window from the reset date.
func (r *PointRepository) ResetExpired(ctx context.Context, filter models.ResetFilter, sroMonths, ncnsMonths int) (int, error) {
	where := []string{"is_expired = true"}
	args := []interface{}{sroMonths, ncnsMonths, models.PointWholeDayAbsence}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Type != nil && filter.Type.Valid() {
		where = append(where, fmt.Sprintf("point_type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("shift_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("shift_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`UPDATE attendance_points
SET is_expired = false,
    expired_at = NULL,
    expiration_type = '%s',
    gbro_batch_id = NULL,
    gbro_expires_at = NULL,
    expires_at = shift_date + CASE WHEN point_type = $3 THEN make_interval(months => $2) ELSE make_interval(months => $1) END,
    updated_at = NOW()
WHERE %s`, models.ExpirationSRO, strings.Join(where, " AND "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset expired points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset expired points: %w", err)
	}
	return int(affected), nil
}

// Excuse marks a point excused with audit metadata. Excused points are
// permanently out of both roll-off passes.
func (r *PointRepository) Excuse(ctx context.Context, id, excusedBy, reason string, at time.Time) (bool, error) {
	query := `UPDATE attendance_points
SET is_excused = true, excused_by = $2, excused_at = $3, excuse_reason = $4, updated_at = $3
WHERE id = $1 AND is_excused = false AND is_expired = false`

	res, err := r.db.ExecContext(ctx, query, id, excusedBy, at.UTC(), reason)
	if err != nil {
		return false, fmt.Errorf("excuse point: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("excuse point: %w", err)
	}
	return affected == 1, nil
}

// CleanupDuplicates removes excess rows sharing (user_id, shift_date,
// point_type), keeping the oldest. Duplicates predate the unique index and
// are a maintenance bug, never deleted silently during normal runs.
func (r *PointRepository) CleanupDuplicates(ctx context.Context) (int, error) {
	query := `DELETE FROM attendance_points
WHERE id IN (
    SELECT id FROM (
        SELECT id, ROW_NUMBER() OVER (
            PARTITION BY user_id, shift_date, point_type ORDER BY created_at ASC, id ASC
        ) AS rn
        FROM attendance_points
    ) ranked
    WHERE ranked.rn > 1
)`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup duplicate points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup duplicate points: %w", err)
	}
	return int(affected), nil
}

// Tx exposes the underlying handle for transaction-scoped operations.
func (r *PointRepository) Tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return InTx(ctx, r.db, fn)
}
