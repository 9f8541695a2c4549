package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"edusync/internal/infrastructure/metrics"
)

// Logger middleware для логирования входящих HTTP запросов
type Logger struct {
	log     *slog.Logger
	metrics *metrics.HTTP
}

// New создает новый экземпляр Logger middleware; m может быть nil
func New(log *slog.Logger, m *metrics.HTTP) *Logger {
	return &Logger{
		log:     log.With(slog.String("component", "http_logger")),
		metrics: m,
	}
}

// Middleware возвращает middleware функцию для логирования HTTP запросов
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		// Получаем информацию о запросе до его обработки
		method := ctx.Method()
		path := ctx.URL().Path
		remoteAddr := ctx.RemoteAddr()

		next(ctx)

		duration := time.Since(start)
		status := ctx.Status()
		if l.metrics != nil {
			l.metrics.Observe(method, status, duration)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		l.log.Log(ctx.Context(), level, "HTTP request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("remote_addr", remoteAddr),
		)
	}
}
