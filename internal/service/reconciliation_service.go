package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-attendance-api/internal/dto"
	"github.com/noah-isme/hr-attendance-api/internal/models"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
	"github.com/noah-isme/hr-attendance-api/pkg/jobs"
)

type scanSource interface {
	ListForWindow(ctx context.Context, filter models.ScanFilter) ([]models.BiometricScan, error)
}

type scheduleSource interface {
	ActiveForDate(ctx context.Context, employeeID string, date time.Time) (*models.ShiftSchedule, error)
}

type attendanceRepository interface {
	Upsert(ctx context.Context, q sqlx.ExtContext, record *models.Attendance) (*models.Attendance, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error)
	FindByEmployeeDate(ctx context.Context, employeeID string, shiftDate time.Time) (*models.Attendance, error)
	Tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// SkippedDate records one (employee, date) the pipeline could not reconcile.
type SkippedDate struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

// ReconciliationSummary aggregates one batch run. Per-employee failures are
// collected here instead of aborting the batch.
type ReconciliationSummary struct {
	EmployeesProcessed int           `json:"employees_processed"`
	RecordsWritten     int           `json:"records_written"`
	PointsCreated      int           `json:"points_created"`
	Skipped            []SkippedDate `json:"skipped,omitempty"`
	Failed             []SkippedDate `json:"failed,omitempty"`
}

// ReconciliationService turns raw biometric scans into per-shift attendance
// rows and charges points for violations. One employee's window commits as a
// single transaction; batches fan out per employee over a worker pool.
type ReconciliationService struct {
	scans      scanSource
	schedules  scheduleSource
	attendance attendanceRepository
	points     *PointService
	leave      LeaveCreditService
	engine     StatusEngine
	metrics    *MetricsService
	pool       *jobs.Pool
	validate   *validator.Validate
	logger     *zap.Logger

	now func() time.Time
}

// NewReconciliationService constructs the service.
func NewReconciliationService(
	scans scanSource,
	schedules scheduleSource,
	attendance attendanceRepository,
	points *PointService,
	leave LeaveCreditService,
	engine StatusEngine,
	metrics *MetricsService,
	pool *jobs.Pool,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReconciliationService {
	if leave == nil {
		leave = NoLeaveCredits{}
	}
	if pool == nil {
		pool = jobs.NewPool(jobs.PoolConfig{Workers: 1})
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		scans:      scans,
		schedules:  schedules,
		attendance: attendance,
		points:     points,
		leave:      leave,
		engine:     engine,
		metrics:    metrics,
		pool:       pool,
		validate:   validate,
		logger:     logger,
		now:        time.Now,
	}
}

// Run validates and executes an on-demand reconciliation request.
func (s *ReconciliationService) Run(ctx context.Context, req dto.RunReconciliationRequest) (*ReconciliationSummary, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reconciliation request")
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}
	return s.ReconcileBatch(ctx, req.EmployeeIDs, from, to)
}

// Reconcile rebuilds one employee's attendance rows for [from, to]. Safe to
// call repeatedly: rows upsert on (employee, shift_date) and point creation
// is guarded by its uniqueness key.
func (s *ReconciliationService) Reconcile(ctx context.Context, employeeID string, from, to time.Time) ([]models.Attendance, *ReconciliationSummary, error) {
	if employeeID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	from = models.DateOf(from)
	to = models.DateOf(to)
	if to.Before(from) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}

	// Next-day shifts put the time-out on the calendar date after the shift
	// date, so the scan window extends past the requested range.
	scans, err := s.scans.ListForWindow(ctx, models.ScanFilter{
		EmployeeID: employeeID,
		From:       from,
		To:         to.AddDate(0, 0, 2),
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scans")
	}

	summary := &ReconciliationSummary{}
	prepared := make([]models.Attendance, 0)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, skip, err := s.prepareDate(ctx, employeeID, date, scans)
		if err != nil {
			return nil, nil, err
		}
		if skip != nil {
			summary.Skipped = append(summary.Skipped, *skip)
			continue
		}
		if record != nil {
			prepared = append(prepared, *record)
		}
	}

	// The whole window commits or rolls back as one unit so a cancelled or
	// failed run never leaves a partially reconciled employee behind.
	stored := make([]models.Attendance, 0, len(prepared))
	err = s.attendance.Tx(ctx, func(tx *sqlx.Tx) error {
		for i := range prepared {
			record, err := s.attendance.Upsert(ctx, tx, &prepared[i])
			if err != nil {
				return err
			}
			stored = append(stored, *record)
			point, err := s.points.Accrue(ctx, tx, record)
			if err != nil {
				return err
			}
			if point != nil {
				summary.PointsCreated++
				if s.metrics != nil {
					s.metrics.IncPointAccrued(string(point.Type))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist reconciliation window")
	}

	summary.EmployeesProcessed = 1
	summary.RecordsWritten = len(stored)
	if s.metrics != nil {
		s.metrics.AddReconciled(len(stored))
		s.metrics.AddSkipped(len(summary.Skipped))
	}
	return stored, summary, nil
}

// ReconcileBatch reconciles many employees concurrently. Employees are
// independent, so the batch partitions per employee; each keeps its own
// stable window and transaction. One employee's failure is reported, not
// fatal to the batch.
func (s *ReconciliationService) ReconcileBatch(ctx context.Context, employeeIDs []string, from, to time.Time) (*ReconciliationSummary, error) {
	if len(employeeIDs) == 0 {
		return &ReconciliationSummary{}, nil
	}
	start := s.now()

	summaries := make([]*ReconciliationSummary, len(employeeIDs))
	tasks := make([]jobs.Task, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		i, employeeID := i, employeeID
		tasks[i] = jobs.Task{
			Key: employeeID,
			Run: func(taskCtx context.Context) error {
				_, summary, err := s.Reconcile(taskCtx, employeeID, from, to)
				if err != nil {
					return err
				}
				summaries[i] = summary
				return nil
			},
		}
	}

	results := s.pool.Run(ctx, tasks)

	total := &ReconciliationSummary{}
	for _, result := range results {
		if result.Err != nil {
			total.Failed = append(total.Failed, SkippedDate{
				EmployeeID: result.Key,
				Reason:     result.Err.Error(),
			})
		}
	}
	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		total.EmployeesProcessed += summary.EmployeesProcessed
		total.RecordsWritten += summary.RecordsWritten
		total.PointsCreated += summary.PointsCreated
		total.Skipped = append(total.Skipped, summary.Skipped...)
	}

	if s.metrics != nil {
		s.metrics.ObserveBatch(s.now().Sub(start))
	}
	s.logger.Sugar().Infow("reconciliation batch complete",
		"employees", total.EmployeesProcessed,
		"records", total.RecordsWritten,
		"points", total.PointsCreated,
		"skipped", len(total.Skipped),
		"failed", len(total.Failed))
	return total, nil
}

// ListAttendance returns reconciled rows matching the filter.
func (s *ReconciliationService) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, *models.Pagination, error) {
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
	rows, total, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// prepareDate builds the attendance row for one (employee, date), or a skip
// entry when the date cannot be reconciled.
func (s *ReconciliationService) prepareDate(ctx context.Context, employeeID string, date time.Time, scans []models.BiometricScan) (*models.Attendance, *SkippedDate, error) {
	schedule, err := s.schedules.ActiveForDate(ctx, employeeID, date)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if schedule == nil {
		s.logger.Sugar().Debugw("no active schedule, skipping date",
			"employee_id", employeeID, "date", date.Format("2006-01-02"))
		return nil, &SkippedDate{
			EmployeeID: employeeID,
			Date:       date.Format("2006-01-02"),
			Reason:     appErrors.ErrNoActiveSchedule.Message,
		}, nil
	}

	// Verified rows were human-reviewed; reprocessing never clobbers them.
	existing, err := s.attendance.FindByEmployeeDate(ctx, employeeID, date)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing attendance")
	}
	if existing != nil && existing.AdminVerified {
		return nil, &SkippedDate{
			EmployeeID: employeeID,
			Date:       date.Format("2006-01-02"),
			Reason:     "admin verified, not reprocessed",
		}, nil
	}

	grouped := GroupScans(scans, *schedule)
	bucket := grouped.Buckets[date]
	resolved := ResolveTimeInOut(date, bucket, *schedule)

	inputs := StatusInputs{
		Schedule:           *schedule,
		ShiftDate:          date,
		TimeIn:             resolved.TimeIn,
		TimeOut:            resolved.TimeOut,
		HasUnassignedScans: hasUnassignedFor(grouped, date, *schedule),
	}
	var notes *string
	if existing != nil {
		inputs.IsAdvised = existing.IsAdvised
		inputs.IsSetHome = existing.IsSetHome
		notes = existing.Notes
	}

	if schedule.WorksOn(date.Weekday()) && resolved.TimeIn == nil && resolved.TimeOut == nil &&
		!inputs.HasUnassignedScans {
		onLeave, leaveNote, err := s.applyLeave(ctx, employeeID, date)
		if err != nil {
			return nil, nil, err
		}
		inputs.OnLeave = onLeave
		if leaveNote != "" {
			notes = &leaveNote
		}
	}

	verdict := s.engine.Evaluate(inputs)

	record := &models.Attendance{
		EmployeeID:       employeeID,
		ScheduleID:       schedule.ID,
		ShiftDate:        date,
		ScheduledTimeIn:  schedule.TimeIn,
		ScheduledTimeOut: schedule.TimeOut,
		Status:           verdict.Status,
		SecondaryStatus:  verdict.SecondaryStatus,
		TardyMinutes:     verdict.TardyMinutes,
		UndertimeMinutes: verdict.UndertimeMinutes,
		OvertimeMinutes:  verdict.OvertimeMinutes,
		IsAdvised:        inputs.IsAdvised,
		IsSetHome:        inputs.IsSetHome,
		IsCrossSiteBio:   verdict.IsCrossSiteBio,
		Notes:            notes,
	}
	if resolved.TimeIn != nil {
		t := resolved.TimeIn.ScannedAt
		record.ActualTimeIn = &t
	}
	if resolved.TimeOut != nil {
		t := resolved.TimeOut.ScannedAt
		record.ActualTimeOut = &t
	}
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	return record, nil, nil
}

// hasUnassignedFor reports whether any scan no window claimed belongs to the
// shift date: scanned on the date itself, or on the following date when the
// shift spills past midnight.
func hasUnassignedFor(grouped GroupedScans, date time.Time, schedule models.ShiftSchedule) bool {
	if len(grouped.Unassigned) == 0 {
		return false
	}
	pattern := ClassifyShiftPattern(schedule.TimeIn, schedule.TimeOut)
	next := date.AddDate(0, 0, 1)
	for _, scan := range grouped.Unassigned {
		d := scan.ScanDate()
		if d.Equal(date) || (pattern.NextDay && d.Equal(next)) {
			return true
		}
	}
	return false
}

// applyLeave consults the leave ledger for a whole-day absence. A shortfall
// deducts the available balance and records the unpaid remainder on the row.
func (s *ReconciliationService) applyLeave(ctx context.Context, employeeID string, date time.Time) (bool, string, error) {
	approved, err := s.leave.HasApprovedLeave(ctx, employeeID, date)
	if err != nil {
		return false, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check approved leave")
	}
	if !approved {
		return false, "", nil
	}
	deduction, err := s.leave.Deduct(ctx, employeeID, 1.0)
	if err != nil {
		return false, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deduct leave credits")
	}
	if deduction.Partial() {
		return true, fmt.Sprintf("leave credit short by %.2f day(s), remainder unpaid", deduction.Remainder), nil
	}
	return true, "", nil
}
