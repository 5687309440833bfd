package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	for _, k := range []string{"CHAT_ADDR", "CHAT_METRICS_ADDR", "LOG_LEVEL", "CHAT_WRITE_TIMEOUT", "CHAT_SHUTDOWN_TIMEOUT", "CHAT_MAX_LINE_LENGTH"} {
		t.Setenv(k, "")
		req.NoError(os.Unsetenv(k))
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal(":5000", cfg.Addr)
	req.Equal(":9090", cfg.MetricsAddr)
	req.Equal("info", cfg.LogLevel)
	req.Zero(cfg.WriteTimeout)
	req.Equal(5*time.Second, cfg.ShutdownTimeout)
	req.Equal(4096, cfg.MaxLineLength)
	req.Equal(slog.LevelInfo, cfg.Level())
}

func TestLoad_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("CHAT_ADDR", "127.0.0.1:7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHAT_WRITE_TIMEOUT", "250ms")
	t.Setenv("CHAT_MAX_LINE_LENGTH", "128")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal("127.0.0.1:7000", cfg.Addr)
	req.Equal(250*time.Millisecond, cfg.WriteTimeout)
	req.Equal(128, cfg.MaxLineLength)
	req.Equal(slog.LevelDebug, cfg.Level())
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "test.env")
	req.NoError(os.WriteFile(path, []byte("CHAT_ADDR=:6000\nCHAT_METRICS_ADDR=:6001\n"), 0o600))
	t.Setenv("CHAT_ADDR", ":7000")
	t.Setenv("CHAT_METRICS_ADDR", "")
	req.NoError(os.Unsetenv("CHAT_METRICS_ADDR"))

	cfg, err := Load(path)

	req.NoError(err)
	req.Equal(":7000", cfg.Addr)
	req.Equal(":6001", cfg.MetricsAddr)
}

func TestLoad_LogLevelIsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", " DEBUG ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal("debug", cfg.LogLevel)
	req.Equal(slog.LevelDebug, cfg.Level())
	req.NoError(Config{Addr: ":5000", LogLevel: "Warn", ShutdownTimeout: time.Second}.Validate())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	req.Error(err)
}

func TestValidate(t *testing.T) {
	req := require.New(t)
	valid := Config{Addr: ":5000", LogLevel: "warn", ShutdownTimeout: time.Second}
	req.NoError(valid.Validate())
	req.Equal(slog.LevelWarn, valid.Level())

	noAddr := valid
	noAddr.Addr = ""
	req.Error(noAddr.Validate())

	negative := valid
	negative.MaxLineLength = -1
	req.Error(negative.Validate())

	noShutdown := valid
	noShutdown.ShutdownTimeout = 0
	req.Error(noShutdown.Validate())
}
