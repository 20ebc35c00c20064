// Package config loads cooksim settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by every command. CLI flags override these.
type Config struct {
	APIURL       string `env:"COOKSIM_API_URL"       envDefault:"http://localhost:8000"`
	JournalPath  string `env:"COOKSIM_JOURNAL"`
	OTelEndpoint string `env:"COOKSIM_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"COOKSIM_OTEL_ENABLED"  envDefault:"true"`
	LogLevel     string `env:"COOKSIM_LOG_LEVEL"     envDefault:"info"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// TracingEnabled reports whether spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) != ""
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
