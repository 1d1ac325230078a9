package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database       DatabaseConfig
	Redis          RedisConfig
	CORS           CORSConfig
	Log            LogConfig
	Reconciliation ReconciliationConfig
	Expiration     ExpirationConfig
	Leave          LeaveConfig
	Exports        ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReconciliationConfig tunes the scan-to-attendance pipeline.
type ReconciliationConfig struct {
	WorkerConcurrency     int
	WorkerRetries         int
	DefaultGraceMinutes   int
	HalfDayThresholdMins  int
	ScheduleCacheTTL      time.Duration
	ScheduleCacheEnabled  bool
	CrossSiteManualReview bool
}

// ExpirationConfig tunes the points roll-off batch.
type ExpirationConfig struct {
	SROMonths      int
	NCNSMonths     int
	GBROCleanDays  int
	GBROBatchSize  int
	RunInterval    time.Duration
	RunOnStartup   bool
	NotifyOnExpiry bool
}

// LeaveConfig gates leave-credit integration.
type LeaveConfig struct {
	Enabled bool
}

// ExportsConfig controls report export rendering.
type ExportsConfig struct {
	Enabled  bool
	MaxRows  int
	PDFTitle string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reconciliation = ReconciliationConfig{
		WorkerConcurrency:     v.GetInt("RECON_WORKER_CONCURRENCY"),
		WorkerRetries:         v.GetInt("RECON_WORKER_RETRIES"),
		DefaultGraceMinutes:   v.GetInt("RECON_DEFAULT_GRACE_MINUTES"),
		HalfDayThresholdMins:  v.GetInt("RECON_HALF_DAY_THRESHOLD_MINUTES"),
		ScheduleCacheTTL:      parseDuration(v.GetString("RECON_SCHEDULE_CACHE_TTL"), 15*time.Minute),
		ScheduleCacheEnabled:  v.GetBool("RECON_SCHEDULE_CACHE_ENABLED"),
		CrossSiteManualReview: v.GetBool("RECON_CROSS_SITE_MANUAL_REVIEW"),
	}

	cfg.Expiration = ExpirationConfig{
		SROMonths:      v.GetInt("POINTS_SRO_MONTHS"),
		NCNSMonths:     v.GetInt("POINTS_NCNS_MONTHS"),
		GBROCleanDays:  v.GetInt("POINTS_GBRO_CLEAN_DAYS"),
		GBROBatchSize:  v.GetInt("POINTS_GBRO_BATCH_SIZE"),
		RunInterval:    parseDuration(v.GetString("POINTS_EXPIRATION_INTERVAL"), 24*time.Hour),
		RunOnStartup:   v.GetBool("POINTS_EXPIRATION_RUN_ON_STARTUP"),
		NotifyOnExpiry: v.GetBool("POINTS_NOTIFY_ON_EXPIRY"),
	}

	cfg.Leave = LeaveConfig{
		Enabled: v.GetBool("ENABLE_LEAVE_CREDITS"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:  v.GetBool("ENABLE_EXPORTS"),
		MaxRows:  v.GetInt("EXPORTS_MAX_ROWS"),
		PDFTitle: v.GetString("EXPORTS_PDF_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hr_attendance")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RECON_WORKER_CONCURRENCY", 4)
	v.SetDefault("RECON_WORKER_RETRIES", 2)
	v.SetDefault("RECON_DEFAULT_GRACE_MINUTES", 5)
	v.SetDefault("RECON_HALF_DAY_THRESHOLD_MINUTES", 240)
	v.SetDefault("RECON_SCHEDULE_CACHE_TTL", "15m")
	v.SetDefault("RECON_SCHEDULE_CACHE_ENABLED", false)
	v.SetDefault("RECON_CROSS_SITE_MANUAL_REVIEW", true)

	v.SetDefault("POINTS_SRO_MONTHS", 6)
	v.SetDefault("POINTS_NCNS_MONTHS", 12)
	v.SetDefault("POINTS_GBRO_CLEAN_DAYS", 60)
	v.SetDefault("POINTS_GBRO_BATCH_SIZE", 2)
	v.SetDefault("POINTS_EXPIRATION_INTERVAL", "24h")
	v.SetDefault("POINTS_EXPIRATION_RUN_ON_STARTUP", false)
	v.SetDefault("POINTS_NOTIFY_ON_EXPIRY", true)

	v.SetDefault("ENABLE_LEAVE_CREDITS", true)

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_MAX_ROWS", 5000)
	v.SetDefault("EXPORTS_PDF_TITLE", "Attendance Points Ledger")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
