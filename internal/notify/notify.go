// Package notify delivers short user-visible notices such as "Note saved".
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Notification struct {
	Level   Level
	Message string
}

func Info(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func Warning(msg string) Notification { return Notification{Level: LevelWarning, Message: msg} }
func Error(msg string) Notification   { return Notification{Level: LevelError, Message: msg} }

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Log writes notifications to the global logger.
var Log Notifier = NotifierFunc(func(ctx context.Context, n Notification) {
	level := slog.LevelInfo
	switch n.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	slogx.Log(ctx, level, n.Message, slog.String("kind", n.Level.String()))
})

type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter prints one line per notification, e.g. "[success] Note saved".
func NewWriter(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", note.Level, note.Message)
}

// Multi fans a notification out to every non-nil notifier.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, nt := range notifiers {
			if nt != nil {
				nt.Notify(ctx, n)
			}
		}
	})
}
