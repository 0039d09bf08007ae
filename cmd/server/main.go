package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"golang.org/x/sync/errgroup"

	"github.com/evgeniy-krivenko/notes-collab/internal/api/notes"
	realtimeapi "github.com/evgeniy-krivenko/notes-collab/internal/api/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/config"
	"github.com/evgeniy-krivenko/notes-collab/internal/ctxtr"
	"github.com/evgeniy-krivenko/notes-collab/internal/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/memory"
	authuc "github.com/evgeniy-krivenko/notes-collab/internal/usecase/auth"
	notesuc "github.com/evgeniy-krivenko/notes-collab/internal/usecase/notes"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/database"
	"github.com/evgeniy-krivenko/notes-collab/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-collab/pkg/gwserver"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := realtime.NewHub()

	notesUC, err := notesuc.New(notesuc.NewOptions(
		store,
		notesuc.WithPublisher(hub),
		notesuc.WithPageSize(cfg.Notes.PageSize),
	))
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	authUC, err := authuc.New(authuc.NewOptions(store, authuc.WithBcryptCost(cfg.Notes.BcryptCost)))
	if err != nil {
		return fmt.Errorf("init auth usecase: %v", err)
	}

	grpcSrv, err := grpcx.New(grpcx.NewOptions(
		cfg.GRPC.Addr,
		grpcx.WithServices(notes.New(notesUC, authUC)),
		grpcx.WithInterceptors(
			recovery.UnaryServerInterceptor(),
			logging.UnaryServerInterceptor(slogx.InterceptorLogger()),
			grpcx.AuthInterceptor(ctxtr.NewAuthenticator(authUC), v1.PublicMethods...),
		),
		grpcx.WithMaxConnIdle(cfg.GRPC.MaxConnectionIdle),
		grpcx.WithTime(cfg.GRPC.KeepaliveTime),
		grpcx.WithTimeout(cfg.GRPC.KeepaliveTimeout),
	))
	if err != nil {
		return fmt.Errorf("init grpc server: %v", err)
	}

	wsSrv, err := gwserver.New(gwserver.NewOptions(
		cfg.HTTP.Addr,
		realtimeapi.New(hub, notesUC, authUC).Router(),
		gwserver.WithMiddlewares(gwserver.AccessLog(slogx.Default())),
	))
	if err != nil {
		return fmt.Errorf("init websocket server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return grpcSrv.Run(ctx) })
	eg.Go(func() error { return wsSrv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		slogx.Warn(ctx, "using in-memory storage, data is lost on exit")
		return memory.New(), func() {}, nil
	}

	db, err := database.Open(ctx, database.NewOptions(
		net.JoinHostPort(cfg.Host, cfg.Port),
		cfg.User,
		cfg.Password,
		cfg.Name,
		database.WithRetryAttempts(cfg.RetryAttempts),
		database.WithMaxConns(cfg.MaxConns),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %v", err)
	}

	repo := repository.New(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %v", err)
	}

	return repo, db.Close, nil
}
