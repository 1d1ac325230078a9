package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/noah-isme/hr-attendance-api/internal/repository"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	"github.com/noah-isme/hr-attendance-api/pkg/config"
	"github.com/noah-isme/hr-attendance-api/pkg/database"
	"github.com/noah-isme/hr-attendance-api/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would expire without persisting")
	noNotify := flag.Bool("no-notify", false, "suppress expiry notifications")
	flag.Parse()

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

	pointRepo := repository.NewPointRepository(db)
	expirationSvc := service.NewExpirationService(
		pointRepo, service.NopNotifier{}, nil,
		cfg.Expiration.GBROCleanDays, cfg.Expiration.GBROBatchSize,
		cfg.Expiration.SROMonths, cfg.Expiration.NCNSMonths, logr,
	)

	notify := cfg.Expiration.NotifyOnExpiry && !*noNotify
	summary, err := expirationSvc.ProcessExpirations(ctx, service.ExpirationOptions{
		DryRun: *dryRun,
		Notify: notify,
	})
	if err != nil {
		logr.Sugar().Fatalw("expiration run failed", "error", err)
	}

	logr.Sugar().Infow("expiration run complete",
		"sro_expired", summary.SROExpired,
		"gbro_expired", summary.GBROExpired,
		"dry_run", summary.DryRun)
}
