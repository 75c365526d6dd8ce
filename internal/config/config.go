// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads at startup
type Config struct {
	Host string `env:"DAWN_HOST" envDefault:""`
	Port int    `env:"DAWN_PORT" envDefault:"8080"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"DAWN_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"DAWN_REDIS_URL"    envDefault:"redis://localhost:6379"`

	JWTSecret     string        `env:"DAWN_JWT_SECRET"     envDefault:"dev-secret-do-not-use"`
	TokenDuration time.Duration `env:"DAWN_TOKEN_DURATION" envDefault:"24h"`

	// MovementFlushInterval is how often queued transformation updates
	// get written to storage
	MovementFlushInterval time.Duration `env:"DAWN_MOVEMENT_FLUSH_INTERVAL" envDefault:"5s"`

	LogLevel string `env:"DAWN_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
