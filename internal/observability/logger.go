package observability

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/bom-alert-relay/internal/config"
)

// NewLogger builds the service logger from config. LOG_FORMAT=text selects a
// human-readable handler for local runs; anything else emits JSON for log
// collection by the scheduler.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
