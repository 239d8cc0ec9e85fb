package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"3000"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// PlayerTimeout is the staleness threshold: a client whose last
	// heartbeat is older than this is considered offline.
	PlayerTimeout time.Duration `env:"PLAYER_TIMEOUT" default:"60s"`

	// CleanupInterval is the reaper's sweep cadence.
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" default:"15s"`

	// PingRateLimitPerMinute caps /ping requests per network origin.
	PingRateLimitPerMinute int `env:"PING_RATE_LIMIT_PER_MINUTE" default:"100"`

	// MaxFeedConnections caps live-feed websocket clients per instance.
	MaxFeedConnections int `env:"MAX_FEED_CONNECTIONS" default:"1000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.PlayerTimeout <= 0 {
		return errors.New("PLAYER_TIMEOUT must be positive")
	}
	if cfg.CleanupInterval <= 0 {
		return errors.New("CLEANUP_INTERVAL must be positive")
	}
	if cfg.CleanupInterval > cfg.PlayerTimeout {
		return fmt.Errorf("CLEANUP_INTERVAL (%s) must not exceed PLAYER_TIMEOUT (%s)", cfg.CleanupInterval, cfg.PlayerTimeout)
	}
	if cfg.PingRateLimitPerMinute <= 0 {
		return errors.New("PING_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if cfg.MaxFeedConnections <= 0 {
		return errors.New("MAX_FEED_CONNECTIONS must be positive")
	}
	return nil
}
