package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// New логгер для окружения: local цветной текст, dev JSON с debug, prod JSON с info
func New(env string) *slog.Logger {
	return NewWithLevel(env, "")
}

// NewWithLevel как New, но непустой level (debug, info, warn, error) заменяет уровень окружения
func NewWithLevel(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

// NewWriter как NewWithLevel, но пишет в out (CLI пишет логи в stderr)
func NewWriter(out io.Writer, env, level string) *slog.Logger {
	return newLogger(out, env, level)
}

func newLogger(out io.Writer, env, level string) *slog.Logger {
	var lvl slog.Level
	switch env {
	case EnvProd:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	if parsed, ok := parseLevel(level); ok {
		lvl = parsed
	}

	switch env {
	case EnvDev, EnvProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}))
	default:
		return slog.New(newPrettyHandler(out, &slog.HandlerOptions{Level: lvl}))
	}
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

// Discard логгер для тестов
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
