package slogx

import (
	"context"
	"log/slog"
)

// Logger is a context-first wrapper over slog that only accepts typed attributes.
type Logger struct {
	l *slog.Logger
}

func New(h slog.Handler) *Logger {
	return &Logger{l: slog.New(h)}
}

func (l *Logger) Handler() slog.Handler {
	return l.l.Handler()
}

// With returns a child logger that adds attrs to every record.
func (l *Logger) With(attrs ...slog.Attr) *Logger {
	return &Logger{l: slog.New(l.l.Handler().WithAttrs(attrs))}
}

func (l *Logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.l.Enabled(ctx, level)
}

func (l *Logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.l.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (l *Logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.l.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (l *Logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.l.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func (l *Logger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.l.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l.l.LogAttrs(ctx, level, msg, attrs...)
}
