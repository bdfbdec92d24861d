package config

import (
	"fmt"
	"os"
	"time"

	"cfbrank/engine/internal/rating"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cfbrank"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cfbrank_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Season
	CurrentSeason int `envconfig:"CURRENT_SEASON" required:"true"`

	// Rating parameters (defaults are the tuned production values)
	KFactor            float64 `envconfig:"RATING_K_FACTOR" default:"32"`
	HomeFieldAdvantage float64 `envconfig:"RATING_HOME_FIELD_ADVANTAGE" default:"65"`
	BaseRating         float64 `envconfig:"RATING_BASE" default:"1500"`
	MaxSeedOffset      float64 `envconfig:"RATING_MAX_SEED_OFFSET" default:"200"`
	MaxWeek            int     `envconfig:"RATING_MAX_WEEK" default:"16"`

	// Scheduler
	EnableScheduler    bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`
	WeeklyPipelineCron string        `envconfig:"WEEKLY_PIPELINE_CRON" default:"0 4 * * MON"`
	PredictionSweep    time.Duration `envconfig:"PREDICTION_SWEEP_INTERVAL" default:"1h"`

	// Caching TTL
	CacheTTLRankings time.Duration `envconfig:"CACHE_TTL_RANKINGS" default:"10m"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	if c.CurrentSeason < 1900 {
		return fmt.Errorf("CURRENT_SEASON must be a valid year")
	}
	if c.KFactor <= 0 {
		return fmt.Errorf("RATING_K_FACTOR must be positive")
	}
	if c.MaxWeek <= 0 {
		return fmt.Errorf("RATING_MAX_WEEK must be positive")
	}
	return nil
}

// RatingParams returns the rating parameters with config overrides applied
func (c *Config) RatingParams() rating.Params {
	params := rating.DefaultParams()
	params.KFactor = c.KFactor
	params.HomeFieldAdvantage = c.HomeFieldAdvantage
	params.BaseRating = c.BaseRating
	params.MaxSeedOffset = c.MaxSeedOffset
	params.MaxWeek = c.MaxWeek
	return params
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
