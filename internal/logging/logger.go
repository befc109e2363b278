package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New создаёт структурированный логгер для компонента.
// level: debug, info, warn, error. Неизвестное значение даёт info.
func New(component, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, component, level)
}

// NewWithWriter то же, что New, но пишет в w.
func NewWithWriter(w io.Writer, component, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: ParseLevel(level) == slog.LevelDebug,
	})
	return slog.New(handler).With("component", component)
}

// Discard логгер для тестов.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel переводит строку из конфига в уровень slog.
func ParseLevel(level string) slog.Level {
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
