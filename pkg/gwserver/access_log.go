package gwserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
)

type accessLogger interface {
	Info(context.Context, string, ...slog.Attr)
}

// AccessLog logs method, path, status and duration of every request.
// Hijacked websocket connections are logged once the upgrade handler returns.
func AccessLog(logger accessLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info(
				r.Context(),
				"handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", m.Code),
				slog.Duration("duration", m.Duration),
			)
		})
	}
}
