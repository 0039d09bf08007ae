package grpcx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

type Service interface {
	RegisterService(grpc.ServiceRegistrar)
}

//go:generate options-gen -out-filename=server_options.gen.go -from-struct=Options -all-variadic true
type Options struct {
	addr     string    `option:"mandatory" validate:"required,hostname_port"`
	services []Service `validate:"required,min=1"`

	grpcOptions  []grpc.ServerOption
	interceptors []grpc.UnaryServerInterceptor

	maxConnIdle time.Duration `default:"5m"`
	time        time.Duration `default:"2h"`
	timeout     time.Duration `default:"20s"`
}

type Server struct {
	opts Options
	srv  *grpc.Server
}

func New(opts Options) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("grpc server validate: %v", err)
	}

	opts.grpcOptions = append(opts.grpcOptions,
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: opts.maxConnIdle,
			Time:              opts.time,
			Timeout:           opts.timeout,
		}),
		grpc.ChainUnaryInterceptor(opts.interceptors...),
	)

	srv := grpc.NewServer(
		opts.grpcOptions...,
	)

	for _, svc := range opts.services {
		svc.RegisterService(srv)
	}

	return &Server{opts: opts, srv: srv}, nil
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		return fmt.Errorf("run grpc: %v", err)
	}

	return s.Serve(ctx, listener)
}

// Serve blocks on an already bound listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		s.srv.GracefulStop()
	}()

	slogx.Info(ctx, "run grpc server", slog.String("addr", listener.Addr().String()))

	if err := s.srv.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("listen and server: %v", err)
	}

	return nil
}
