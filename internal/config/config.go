// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"8080"`

	// Storage. The memory driver is the default and needs no DSN; sqlite
	// takes a file path, postgres a connection string.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	StoreDSN    string `envconfig:"STORE_DSN"`

	// CORS allowed origins, comma-separated. Empty disables CORS headers.
	CORSOrigins string `envconfig:"CORS_ORIGINS"`

	// Seed data. A default demo user is always created; SEED_FILE points
	// to an optional YAML file with demo projects/sprints/tasks.
	SeedFile string `envconfig:"SEED_FILE"`

	// WSSendBuffer is the per-subscriber frame buffer; a subscriber whose
	// buffer is full misses frames.
	WSSendBuffer int `envconfig:"WS_SEND_BUFFER" default:"16"`
}

// Validate checks cross-field constraints not expressible in tags.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("STORE_DSN is required for driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.WSSendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
