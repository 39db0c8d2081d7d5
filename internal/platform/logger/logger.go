package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Setup replaces the process-wide logger. It is meant to be called once from main
// before any goroutine starts logging.
func Setup(level, format string) {
	base = New(os.Stdout, level, format)
}

// New builds a logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// L returns the current logger for callers that need slog directly.
func L() *slog.Logger {
	return base
}

func Debug(msg string, args ...any) {
	base.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	base.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	base.Warn(msg, args...)
}

// Error logs msg at error level. err may be nil; args are slog key/value pairs.
func Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	base.Error(msg, args...)
}
