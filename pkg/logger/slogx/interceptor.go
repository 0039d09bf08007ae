package slogx

import (
	"context"
	"log/slog"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
)

// InterceptorLogger adapts the global logger for go-grpc-middleware logging interceptors.
func InterceptorLogger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		Default().l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// LoggingInterceptor logs every outgoing unary call with its duration.
func LoggingInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	start := time.Now()
	logger := Default()

	methodAttr := slog.String("method", method)
	logger.Debug(ctx, "start grpc call", methodAttr)

	err := invoker(ctx, method, req, reply, cc, opts...)

	durAttr := slog.Duration("duration", time.Since(start))
	if err != nil {
		logger.Warn(ctx, "grpc call finished with error", methodAttr, durAttr, Err(err))
	} else {
		logger.Debug(ctx, "grpc call finished", methodAttr, durAttr)
	}

	return err
}
