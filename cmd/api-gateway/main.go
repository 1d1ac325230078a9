package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/hr-attendance-api/api/swagger"
	"github.com/noah-isme/hr-attendance-api/internal/handler"
	"github.com/noah-isme/hr-attendance-api/internal/middleware"
	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/internal/repository"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	"github.com/noah-isme/hr-attendance-api/pkg/cache"
	"github.com/noah-isme/hr-attendance-api/pkg/config"
	"github.com/noah-isme/hr-attendance-api/pkg/database"
	"github.com/noah-isme/hr-attendance-api/pkg/jobs"
	"github.com/noah-isme/hr-attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hr-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hr-attendance-api/pkg/middleware/requestid"
	"github.com/noah-isme/hr-attendance-api/pkg/scheduler"
)

// @title HR Attendance API
// @version 1.0.0
// @description Biometric attendance reconciliation and disciplinary points lifecycle
// @BasePath /api/v1
// @schemes http

func main() {
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

	// Repositories.
	scanRepo := repository.NewScanRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	pointRepo := repository.NewPointRepository(db)

	metrics := service.NewMetricsService()

	var scheduleSource interface {
		ActiveForDate(ctx context.Context, employeeID string, date time.Time) (*models.ShiftSchedule, error)
	} = scheduleRepo
	if cfg.Reconciliation.ScheduleCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			scheduleSource = service.NewCachedScheduleSource(scheduleRepo, cacheRepo, cfg.Reconciliation.ScheduleCacheTTL, logr)
		}
	}

	// Services.
	engine := service.NewStatusEngine(cfg.Reconciliation.HalfDayThresholdMins, cfg.Reconciliation.CrossSiteManualReview)
	pointSvc := service.NewPointService(pointRepo, cfg.Expiration.SROMonths, cfg.Expiration.NCNSMonths, logr)
	pool := jobs.NewPool(jobs.PoolConfig{
		Workers:    cfg.Reconciliation.WorkerConcurrency,
		MaxRetries: cfg.Reconciliation.WorkerRetries,
		Logger:     logr,
	})
	// A real leave-credit provider plugs in here; the gateway ships with the
	// no-op implementation.
	var leave service.LeaveCreditService = service.NoLeaveCredits{}
	reconSvc := service.NewReconciliationService(scanRepo, scheduleSource, attendanceRepo, pointSvc, leave, engine, metrics, pool, nil, logr)
	expirationSvc := service.NewExpirationService(
		pointRepo, service.NopNotifier{}, metrics,
		cfg.Expiration.GBROCleanDays, cfg.Expiration.GBROBatchSize,
		cfg.Expiration.SROMonths, cfg.Expiration.NCNSMonths, logr,
	)
	exportSvc := service.NewExportService(pointSvc, cfg.Exports, logr)

	// Handlers.
	reconHandler := handler.NewReconciliationHandler(reconSvc)
	pointHandler := handler.NewPointHandler(pointSvc, expirationSvc, cfg.Expiration.NotifyOnExpiry)
	reportHandler := handler.NewReportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/reconciliation/run", reconHandler.Run)
		api.GET("/attendance", reconHandler.ListAttendance)
		api.GET("/points", pointHandler.List)
		api.POST("/points/:id/excuse", pointHandler.Excuse)
		api.POST("/points/expirations/run", pointHandler.RunExpirations)
		api.POST("/points/expired/reset", pointHandler.ResetExpired)
		api.POST("/points/duplicates/cleanup", pointHandler.CleanupDuplicates)
		api.GET("/reports/points/export", reportHandler.ExportPoints)
	}

	// Recurring expiration sweep.
	sched := scheduler.NewTicker(logr)
	sched.Every(cfg.Expiration.RunInterval, "points-expiration", func(jobCtx context.Context) error {
		_, err := expirationSvc.ProcessExpirations(jobCtx, service.ExpirationOptions{Notify: cfg.Expiration.NotifyOnExpiry})
		return err
	})
	sched.Start(ctx)
	defer sched.Stop()

	if cfg.Expiration.RunOnStartup {
		if _, err := expirationSvc.ProcessExpirations(ctx, service.ExpirationOptions{Notify: cfg.Expiration.NotifyOnExpiry}); err != nil {
			logr.Sugar().Errorw("startup expiration run failed", "error", err)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		logr.Sugar().Infow("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
