// Package logger содержит логгер сервиса поверх log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger — интерфейс логирования, используемый во всех слоях приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// SlogLogger реализует Logger поверх slog.Logger.
type SlogLogger struct {
	log   *slog.Logger
	level *slog.LevelVar
}

// NewSlogLogger создаёт JSON-логгер в stdout с уровнем info.
func NewSlogLogger() *SlogLogger {
	return New(os.Stdout, slog.LevelInfo)
}

// New создаёт JSON-логгер, пишущий в w.
func New(w io.Writer, level slog.Level) *SlogLogger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	return &SlogLogger{log: slog.New(h), level: lv}
}

// SetLevel меняет уровень логирования после загрузки конфигурации.
// Допустимые значения: debug, info, warn, error.
func (l *SlogLogger) SetLevel(level string) error {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l.level.Set(lv)
	return nil
}

// Slog возвращает нижележащий slog.Logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.log
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.logf(slog.LevelDebug, nil, format, args...)
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.logf(slog.LevelInfo, nil, format, args...)
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.logf(slog.LevelWarn, nil, format, args...)
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.logf(slog.LevelError, err, format, args...)
}

func (l *SlogLogger) logf(level slog.Level, err error, format string, args ...any) {
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if err != nil {
		l.log.LogAttrs(ctx, level, msg, slog.String("error", err.Error()))
		return
	}

	l.log.LogAttrs(ctx, level, msg)
}
