// Package config loads server settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        `env:"CHAT_ADDR,default=:5000" validate:"required"`
	MetricsAddr     string        `env:"CHAT_METRICS_ADDR,default=:9090"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	WriteTimeout    time.Duration `env:"CHAT_WRITE_TIMEOUT,default=0s" validate:"gte=0"`
	ShutdownTimeout time.Duration `env:"CHAT_SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	MaxLineLength   int           `env:"CHAT_MAX_LINE_LENGTH,default=4096" validate:"gte=0"`
}

var validate = validator.New()

// Load reads the given dotenv files (".env" when none are given) into the
// process environment without overriding variables that are already set,
// then unmarshals and validates the result. Missing dotenv files are not
// an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load dotenv: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.LogLevel = normalizeLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks c with LogLevel compared case-insensitively.
func (c Config) Validate() error {
	c.LogLevel = normalizeLevel(c.LogLevel)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch normalizeLevel(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
