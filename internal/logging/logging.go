// Package logging builds the slog loggers handed to every component.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// TimeFormat renders timestamps as "HH:MM:SS.ms" (e.g. "14:32:01.45").
const TimeFormat = "15:04:05.00"

// New returns a slog logger writing through a charmbracelet/log handler.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, level))
}

// NewHandler is the handler behind New.
func NewHandler(w io.Writer, level slog.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           toCharm(level),
		Prefix:          "raylock",
	})
}

// ParseLevel converts a config level. Unknown values map to info.
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

func toCharm(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level <= slog.LevelInfo:
		return log.InfoLevel
	case level <= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
