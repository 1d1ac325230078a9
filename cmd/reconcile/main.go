package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/noah-isme/hr-attendance-api/internal/repository"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	"github.com/noah-isme/hr-attendance-api/pkg/config"
	"github.com/noah-isme/hr-attendance-api/pkg/database"
	"github.com/noah-isme/hr-attendance-api/pkg/jobs"
	"github.com/noah-isme/hr-attendance-api/pkg/logger"
)

func main() {
	employees := flag.String("employees", "", "comma-separated employee IDs")
	fromArg := flag.String("from", "", "range start (YYYY-MM-DD)")
	toArg := flag.String("to", "", "range end (YYYY-MM-DD)")
	flag.Parse()

	ids := splitIDs(*employees)
	if len(ids) == 0 {
		log.Fatal("at least one employee id is required")
	}
	from, err := time.Parse("2006-01-02", *fromArg)
	if err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	to, err := time.Parse("2006-01-02", *toArg)
	if err != nil {
		log.Fatalf("invalid -to: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanRepo := repository.NewScanRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	pointRepo := repository.NewPointRepository(db)

	engine := service.NewStatusEngine(cfg.Reconciliation.HalfDayThresholdMins, cfg.Reconciliation.CrossSiteManualReview)
	pointSvc := service.NewPointService(pointRepo, cfg.Expiration.SROMonths, cfg.Expiration.NCNSMonths, logr)
	pool := jobs.NewPool(jobs.PoolConfig{
		Workers:    cfg.Reconciliation.WorkerConcurrency,
		MaxRetries: cfg.Reconciliation.WorkerRetries,
		Logger:     logr,
	})
	reconSvc := service.NewReconciliationService(
		scanRepo, scheduleRepo, attendanceRepo, pointSvc,
		service.NoLeaveCredits{}, engine, nil, pool, nil, logr,
	)

	summary, err := reconSvc.ReconcileBatch(ctx, ids, from, to)
	if err != nil {
		logr.Sugar().Fatalw("reconciliation failed", "error", err)
	}

	logr.Sugar().Infow("reconciliation complete",
		"employees", summary.EmployeesProcessed,
		"records", summary.RecordsWritten,
		"points", summary.PointsCreated,
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed))
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
