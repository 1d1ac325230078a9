package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// ScanRepository reads the canonical biometric scan store. Rows are written
// by the ingest pipeline; the engine only ever reads them.
type ScanRepository struct {
	db *sqlx.DB
}

// NewScanRepository constructs the repository.
func NewScanRepository(db *sqlx.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// ListForWindow returns one employee's scans within [from, to] in ascending
// timestamp order. Time-in/time-out selection depends on this ordering.
func (r *ScanRepository) ListForWindow(ctx context.Context, filter models.ScanFilter) ([]models.BiometricScan, error) {
	query := `SELECT id, employee_id, site_id, scanned_at, created_at
FROM biometric_scans
WHERE employee_id = $1 AND scanned_at >= $2 AND scanned_at < $3
ORDER BY scanned_at ASC`

	var scans []models.BiometricScan
	if err := r.db.SelectContext(ctx, &scans, query, filter.EmployeeID, filter.From, filter.To); err != nil {
		return nil, fmt.Errorf("list scans for window: %w", err)
	}
	return scans, nil
}
