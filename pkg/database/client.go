package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.33.2 -out-filename=client_options.gen.go -from-struct=Options
type Options struct {
	address  string `option:"mandatory" validate:"required,hostname_port"`
	username string `option:"mandatory" validate:"required"`
	password string `option:"mandatory" validate:"required"`
	database string `option:"mandatory" validate:"required"`

	retry         bool          `default:"true"`
	retryAttempts uint          `default:"1" validate:"min=1,max=10"`
	retryDelay    time.Duration `default:"300ms"`

	maxConns int32 `default:"5" validate:"min=1,max=20"`
}

func NewPGX(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options for pgx: %v", err)
	}

	ds := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(opts.username, opts.password),
		Host:   opts.address,
		Path:   opts.database,
	}

	cfg, err := pgxpool.ParseConfig(ds.String())
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %v", err)
	}
	cfg.MaxConns = opts.maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open new pgx pool: %v", err)
	}

	if !opts.retry {
		return pool, pool.Ping(ctx)
	}

	if err := retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Delay(opts.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Attempts(opts.retryAttempts),
		retry.OnRetry(func(attempt uint, err error) {
			slogx.Warn(ctx, "failed ping to database",
				slogx.Err(err), slog.Uint64("attempt", uint64(attempt)+1))
		}),
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping to database: %v", err)
	}

	return pool, nil
}
