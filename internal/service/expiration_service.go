package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
)

type expirationRepository interface {
	FindSRODue(ctx context.Context, asOf time.Time) ([]models.AttendancePoint, error)
	FindActiveEligible(ctx context.Context) ([]models.AttendancePoint, error)
	MarkExpiredSRO(ctx context.Context, q sqlx.ExtContext, id string, at time.Time) (bool, error)
	MarkExpiredGBRO(ctx context.Context, q sqlx.ExtContext, ids []string, batchID string, at time.Time) (int, error)
	ResetExpired(ctx context.Context, filter models.ResetFilter, sroMonths, ncnsMonths int) (int, error)
	Tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// ExpirationOptions tunes one expiration run.
type ExpirationOptions struct {
	DryRun bool
	Notify bool
}

// ExpirationService applies the two independent roll-off rules to active
// points: SRO (standard, time-based) and GBRO (good-behavior). Both run on
// every invocation; expired and excused points are excluded from candidate
// selection up front.
type ExpirationService struct {
	repo       expirationRepository
	notifier   Notifier
	metrics    *MetricsService
	cleanDays  int
	batchSize  int
	sroMonths  int
	ncnsMonths int
	logger     *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewExpirationService constructs the service.
func NewExpirationService(repo expirationRepository, notifier Notifier, metrics *MetricsService, cleanDays, batchSize, sroMonths, ncnsMonths int, logger *zap.Logger) *ExpirationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cleanDays <= 0 {
		cleanDays = 60
	}
	if batchSize <= 0 {
		batchSize = 2
	}
	if sroMonths <= 0 {
		sroMonths = 6
	}
	if ncnsMonths <= 0 {
		ncnsMonths = 12
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpirationService{
		repo:       repo,
		notifier:   notifier,
		metrics:    metrics,
		cleanDays:  cleanDays,
		batchSize:  batchSize,
		sroMonths:  sroMonths,
		ncnsMonths: ncnsMonths,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessExpirations runs both roll-off passes once. With DryRun the same
// selection executes but nothing persists; Notify false suppresses only the
// notification side effect.
func (s *ExpirationService) ProcessExpirations(ctx context.Context, opts ExpirationOptions) (*models.ExpirationSummary, error) {
	today := models.DateOf(s.now().UTC())
	summary := &models.ExpirationSummary{DryRun: opts.DryRun}
	var expired []models.AttendancePoint

	sroDue, err := s.repo.FindSRODue(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select sro candidates")
	}
	for i := range sroDue {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		point := sroDue[i]
		if opts.DryRun {
			summary.SROExpired++
			continue
		}
		err := s.repo.Tx(ctx, func(tx *sqlx.Tx) error {
			updated, err := s.repo.MarkExpiredSRO(ctx, tx, point.ID, s.now().UTC())
			if err != nil {
				return err
			}
			if updated {
				summary.SROExpired++
				expired = append(expired, point)
			}
			return nil
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire point")
		}
	}

	gbroExpired, gbroPoints, err := s.runGBRO(ctx, today, opts.DryRun)
	if err != nil {
		return nil, err
	}
	summary.GBROExpired = gbroExpired
	expired = append(expired, gbroPoints...)

	if s.metrics != nil && !opts.DryRun {
		s.metrics.AddPointsExpired("sro", summary.SROExpired)
		s.metrics.AddPointsExpired("gbro", summary.GBROExpired)
	}

	if opts.Notify && !opts.DryRun && len(expired) > 0 {
		if err := s.notifier.NotifyPointsExpired(ctx, expired); err != nil {
			// Notification failure never fails the run.
			s.logger.Sugar().Warnw("expiration notification failed", "error", err)
		}
	}

	s.logger.Sugar().Infow("expiration run complete",
		"sro_expired", summary.SROExpired,
		"gbro_expired", summary.GBROExpired,
		"dry_run", opts.DryRun)
	return summary, nil
}

// runGBRO applies the good-behavior rule per user: after a 60-day clean
// window since the most recent active eligible violation, the two most
// recent eligible points expire together under one batch id.
func (s *ExpirationService) runGBRO(ctx context.Context, today time.Time, dryRun bool) (int, []models.AttendancePoint, error) {
	eligible, err := s.repo.FindActiveEligible(ctx)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select gbro candidates")
	}

	// Rows arrive ordered user ascending, shift date descending, so each
	// user's first row is their most recent violation.
	byUser := make(map[string][]models.AttendancePoint)
	order := make([]string, 0)
	for _, point := range eligible {
		if _, seen := byUser[point.UserID]; !seen {
			order = append(order, point.UserID)
		}
		byUser[point.UserID] = append(byUser[point.UserID], point)
	}

	total := 0
	var expired []models.AttendancePoint
	for _, userID := range order {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		points := byUser[userID]
		mostRecent := models.DateOf(points[0].ShiftDate)
		cleanFor := int(today.Sub(mostRecent).Hours() / 24)
		if cleanFor < s.cleanDays {
			continue
		}
		batch := points
		if len(batch) > s.batchSize {
			batch = batch[:s.batchSize]
		}
		if dryRun {
			total += len(batch)
			continue
		}
		batchID := uuid.NewString()
		ids := make([]string, len(batch))
		for i, p := range batch {
			ids[i] = p.ID
		}
		err := s.repo.Tx(ctx, func(tx *sqlx.Tx) error {
			affected, err := s.repo.MarkExpiredGBRO(ctx, tx, ids, batchID, s.now().UTC())
			if err != nil {
				return err
			}
			total += affected
			return nil
		})
		if err != nil {
			return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire gbro batch")
		}
		expired = append(expired, batch...)
		s.logger.Sugar().Infow("gbro batch expired",
			"user_id", userID, "batch_id", batchID, "points", len(batch))
	}
	return total, expired, nil
}

// ResetExpired clears expiration state for matching points, restoring each
// point's original deadline computed from its shift date.
func (s *ExpirationService) ResetExpired(ctx context.Context, filter models.ResetFilter) (int, error) {
	count, err := s.repo.ResetExpired(ctx, filter, s.sroMonths, s.ncnsMonths)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset expired points")
	}
	s.logger.Sugar().Infow("expired points reset", "count", count)
	return count, nil
}
