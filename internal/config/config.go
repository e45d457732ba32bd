package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client configuration, loaded from the environment.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	AssetBaseURL   string        `env:"ASSET_BASE_URL" envDefault:"http://localhost:8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string        `env:"LOG_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level converts the configured log level string to a slog.Level.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
