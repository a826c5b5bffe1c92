package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger: JSON when LOG_FORMAT
// is "json", human-readable text otherwise. Source locations are always
// attached.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
}
