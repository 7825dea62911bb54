package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Port      string `mapstructure:"PORT"`
	DBPath    string `mapstructure:"DB_PATH"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Trail analysis and import
	TrailFilesDir   string  `mapstructure:"TRAIL_FILES_DIR"`
	SegmentLengthKm float64 `mapstructure:"SEGMENT_LENGTH_KM"`
	ImportWorkers   int     `mapstructure:"IMPORT_WORKERS"`

	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	AppEnv             string `mapstructure:"APP_ENV"` // development, production
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

// NewViper returns a viper instance reading the environment with all defaults set.
// Callers may bind flags on it before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", ":8080")
	v.SetDefault("DB_PATH", "./data/trails.db")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("TRAIL_FILES_DIR", "./storage/trail_files")
	v.SetDefault("SEGMENT_LENGTH_KM", 0.5)
	v.SetDefault("IMPORT_WORKERS", 4)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	return v
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	return FromViper(NewViper())
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.SegmentLengthKm <= 0 {
		return nil, fmt.Errorf("SEGMENT_LENGTH_KM must be positive, got %v", cfg.SegmentLengthKm)
	}
	if cfg.ImportWorkers < 1 {
		return nil, fmt.Errorf("IMPORT_WORKERS must be at least 1, got %d", cfg.ImportWorkers)
	}
	if cfg.RateLimitPerMinute < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got %d", cfg.RateLimitPerMinute)
	}

	return &cfg, nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
