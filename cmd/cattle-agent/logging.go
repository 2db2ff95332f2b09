package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"

	"github.com/rs/zerolog"
)

// setupLogging writes to stdout and to a daily file under cfg.LogCfg.Dir. When
// the directory cannot be created the logger falls back to stdout only.
func setupLogging(cfg *config.ServiceConfig) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(cfg.LogCfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var console io.Writer = os.Stdout
	if cfg.Env != config.EnvProduction {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	file, fileErr := openLogFile(cfg.LogCfg.Dir, time.Now())
	var out io.Writer = console
	if fileErr == nil {
		out = zerolog.MultiLevelWriter(console, file)
	}

	logger := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", "cattle-agent").
		Str("version", Version).
		Logger()

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("dir", cfg.LogCfg.Dir).Msg("file logging disabled")
		return logger, io.NopCloser(nil)
	}
	return logger, file
}

func openLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := filepath.Join(dir, fmt.Sprintf("log_%s.log", now.Format("2006-01-02")))
	file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
