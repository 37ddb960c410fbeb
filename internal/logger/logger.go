// Package logger configures the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/portfolio-ledger/internal/config"
)

// parseLevel maps the configured level name to a slog.Level, defaulting to
// Info on anything unrecognized.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// NewLogger builds the JSON logger every component shares. Debug level also
// turns on source locations; the app name and environment ride along on
// every record so aggregated logs stay attributable.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler).With(
		"app", cfg.Application.Name,
		"env", cfg.Application.Env,
	)
	logger.Info("logger initialized", "level", level.String())

	return logger
}
