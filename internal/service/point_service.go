package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
)

type pointRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, point *models.AttendancePoint) (bool, error)
	List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, int, error)
	FindByID(ctx context.Context, id string) (*models.AttendancePoint, error)
	Excuse(ctx context.Context, id, excusedBy, reason string, at time.Time) (bool, error)
	CleanupDuplicates(ctx context.Context) (int, error)
}

// PointService converts finalized attendance rows into disciplinary points
// and owns excusal plus duplicate maintenance.
type PointService struct {
	repo       pointRepository
	sroMonths  int
	ncnsMonths int
	logger     *zap.Logger
}

// NewPointService constructs the service.
func NewPointService(repo pointRepository, sroMonths, ncnsMonths int, logger *zap.Logger) *PointService {
	if sroMonths <= 0 {
		sroMonths = 6
	}
	if ncnsMonths <= 0 {
		ncnsMonths = 12
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PointService{repo: repo, sroMonths: sroMonths, ncnsMonths: ncnsMonths, logger: logger}
}

// BuildPoint maps a finalized attendance row to at most one point record.
// Returns nil when the row carries no violation: sent-home shifts suppress
// undertime entirely, and non-punitive statuses never charge.
func (s *PointService) BuildPoint(att *models.Attendance) *models.AttendancePoint {
	pointType, ok := violationFor(att)
	if !ok {
		return nil
	}

	point := &models.AttendancePoint{
		UserID:         att.EmployeeID,
		AttendanceID:   att.ID,
		ShiftDate:      models.DateOf(att.ShiftDate),
		Type:           pointType,
		Points:         pointType.Value(),
		ExpirationType: models.ExpirationSRO,
	}
	switch pointType {
	case models.PointWholeDayAbsence:
		// Whole-day unexcused absences roll off only by time, on the longer
		// fixed window, and are never GBRO candidates. They carry no rule
		// tag until the sweep retires them; the sweep selects by expires_at
		// alone and stamps the rule at expiration.
		point.EligibleForGBRO = false
		point.ExpirationType = models.ExpirationNone
		point.ExpiresAt = point.ShiftDate.AddDate(0, s.ncnsMonths, 0)
	default:
		point.EligibleForGBRO = true
		point.ExpiresAt = point.ShiftDate.AddDate(0, s.sroMonths, 0)
	}
	return point
}

// Accrue idempotently writes the point derived from an attendance row.
// Returns the point when a new row was created, nil when the row carries no
// violation or the (user, shift_date, point_type) key already exists.
func (s *PointService) Accrue(ctx context.Context, q sqlx.ExtContext, att *models.Attendance) (*models.AttendancePoint, error) {
	point := s.BuildPoint(att)
	if point == nil {
		return nil, nil
	}
	created, err := s.repo.Create(ctx, q, point)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accrue point")
	}
	if !created {
		s.logger.Debug("point already exists, skipping",
			zap.String("user_id", att.EmployeeID),
			zap.Time("shift_date", att.ShiftDate),
			zap.String("point_type", string(point.Type)))
		return nil, nil
	}
	return point, nil
}

// List returns points matching the filter.
func (s *PointService) List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, *models.Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	filter.Page = page
	filter.PageSize = size
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list points")
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Excuse marks an active point excused, recording who and why. Excused
// points are permanently beyond both roll-off rules.
func (s *PointService) Excuse(ctx context.Context, id, excusedBy, reason string) (*models.AttendancePoint, error) {
	if id == "" || excusedBy == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "point id and excused_by are required")
	}
	updated, err := s.repo.Excuse(ctx, id, excusedBy, reason, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to excuse point")
	}
	if !updated {
		point, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "point not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load point")
		}
		if point.IsExcused {
			return nil, appErrors.ErrAlreadyExcused
		}
		return nil, appErrors.ErrAlreadyExpired
	}
	point, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "point not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load point")
	}
	return point, nil
}

// CleanupDuplicates removes excess points sharing a uniqueness key, keeping
// the oldest row of each group.
func (s *PointService) CleanupDuplicates(ctx context.Context) (int, error) {
	removed, err := s.repo.CleanupDuplicates(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clean up duplicate points")
	}
	if removed > 0 {
		s.logger.Sugar().Infow("duplicate points removed", "count", removed)
	}
	return removed, nil
}

// violationFor resolves the point type charged for an attendance row. The
// primary status decides first; a point-free primary falls through to the
// secondary status so a tardy-plus-undertime day still charges only once.
func violationFor(att *models.Attendance) (models.PointType, bool) {
	if att.IsSetHome {
		return "", false
	}
	if t, ok := statusViolation(att.Status); ok {
		return t, true
	}
	if att.SecondaryStatus != nil {
		return statusViolation(*att.SecondaryStatus)
	}
	return "", false
}

func statusViolation(status models.AttendanceStatus) (models.PointType, bool) {
	switch status {
	case models.StatusNCNS:
		return models.PointWholeDayAbsence, true
	case models.StatusHalfDayAbsence, models.StatusAdvisedAbsence:
		return models.PointHalfDayAbsence, true
	case models.StatusUndertimeMoreThan1Hr:
		return models.PointUndertimeMoreThan1Hr, true
	case models.StatusUndertime:
		return models.PointUndertime, true
	case models.StatusTardy:
		return models.PointTardy, true
	default:
		return "", false
	}
}
