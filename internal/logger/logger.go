// Package logger holds the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is shared by every package. It starts with sane defaults so tests
// can log without setup; main replaces it once config is loaded.
var Log *slog.Logger

func init() {
	Initialize("info", false)
}

// Initialize replaces the global logger. level accepts the log_level
// config values (debug, info, warn, error); useJSON selects the handler
// deployments scrape, text is for local runs.
func Initialize(level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if useJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
