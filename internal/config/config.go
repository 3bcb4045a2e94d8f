// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full application configuration. Values come from MINIBOOKS_*
// environment variables.
type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	Log      LogConfig
	Database DatabaseConfig
	HTTP     HTTPConfig

	// AuditEnabled turns the posting audit trail on.
	AuditEnabled bool `envconfig:"AUDIT_ENABLED" default:"true"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	DSN             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads configuration from MINIBOOKS_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("minibooks", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
