package app

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg *Config) *slog.Logger {
	format, level := "pretty", "info"
	if cfg != nil {
		format, level = cfg.LogFormat, cfg.LogLevel
	}
	return NewLoggerWithWriter(os.Stdout, format, ParseLevel(level), true)
}

// NewLoggerWithWriter builds a text or JSON logger writing to w.
func NewLoggerWithWriter(w io.Writer, format string, level slog.Level, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a level name to slog.Level. Unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
