package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger creates a structured logger writing to w at level. Format "text"
// uses a human-readable tint handler; anything else is JSON.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == "text" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level: level,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// LogOutput returns stdout, tee'd into path when path is non-empty. The
// returned close function closes the file.
func LogOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return io.MultiWriter(os.Stdout, f), f.Close, nil
}
