// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated once at startup; nothing reads the process
// environment after Load returns.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Data directory for the sqlite mirror file
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Mirror driver: sqlite, postgres or memory
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	// Database (PostgreSQL), required only when STORE_DRIVER=postgres
	DatabaseURL string `env:"DATABASE_URL" envDefault:""`

	// Cache (Redis), optional; enables the login rate limit when set
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Shared secret gating password resets
	ResetProofPhrase string `env:"RESET_PROOF_PHRASE" envDefault:"alohomora"`

	// Backup sink: s3, dir or disabled
	BackupDriver      string        `env:"BACKUP_DRIVER" envDefault:"disabled"`
	BackupS3Bucket    string        `env:"BACKUP_S3_BUCKET" envDefault:""`
	BackupS3Region    string        `env:"BACKUP_S3_REGION" envDefault:""`
	BackupS3Endpoint  string        `env:"BACKUP_S3_ENDPOINT" envDefault:""`
	BackupS3PathStyle bool          `env:"BACKUP_S3_PATH_STYLE" envDefault:"false"`
	BackupS3Prefix    string        `env:"BACKUP_S3_PREFIX" envDefault:""`
	BackupDir         string        `env:"BACKUP_DIR" envDefault:"./backups"`
	BackupInterval    time.Duration `env:"BACKUP_INTERVAL" envDefault:"1h"`
	BackupHistory     bool          `env:"BACKUP_HISTORY" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Login rate limiting (active only with a Redis URL)
	RateLimitLoginEnabled bool `env:"RATE_LIMIT_LOGIN_ENABLED" envDefault:"true"`
	RateLimitLoginRPS     int  `env:"RATE_LIMIT_LOGIN_RPS" envDefault:"5"`
	RateLimitLoginBurst   int  `env:"RATE_LIMIT_LOGIN_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SQLitePath is the location of the durable mirror file under DataDir.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "labstock.db")
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or inconsistent.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required with STORE_DRIVER=postgres")
	}
	switch c.BackupDriver {
	case "s3", "dir", "disabled":
	default:
		return fmt.Errorf("unknown BACKUP_DRIVER %q", c.BackupDriver)
	}
	if c.BackupDriver == "s3" && c.BackupS3Bucket == "" {
		return fmt.Errorf("BACKUP_S3_BUCKET is required with BACKUP_DRIVER=s3")
	}
	return nil
}
