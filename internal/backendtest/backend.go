// Package backendtest runs the reference backend in-process for client tests:
// gRPC over bufconn and the websocket endpoint over httptest.
package backendtest

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/evgeniy-krivenko/notes-collab/internal/api/notes"
	realtimeapi "github.com/evgeniy-krivenko/notes-collab/internal/api/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/ctxtr"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/memory"
	authuc "github.com/evgeniy-krivenko/notes-collab/internal/usecase/auth"
	notesuc "github.com/evgeniy-krivenko/notes-collab/internal/usecase/notes"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/grpcx"
)

const (
	Target = "passthrough:///bufnet"

	bufSize = 1 << 20
)

type Backend struct {
	Repo  *memory.Repo
	Hub   *realtime.Hub
	Notes *notesuc.Usecase
	Auth  *authuc.Usecase

	lis *bufconn.Listener
	ws  *httptest.Server
}

// Start serves until the test ends.
func Start(t testing.TB) *Backend {
	t.Helper()

	repo := memory.New()
	hub := realtime.NewHub()

	notesUC, err := notesuc.New(notesuc.NewOptions(repo, notesuc.WithPublisher(hub)))
	require.NoError(t, err)

	authUC, err := authuc.New(authuc.NewOptions(repo, authuc.WithBcryptCost(bcrypt.MinCost)))
	require.NoError(t, err)

	srv, err := grpcx.New(grpcx.NewOptions(
		"127.0.0.1:50051",
		grpcx.WithServices(notes.New(notesUC, authUC)),
		grpcx.WithInterceptors(grpcx.AuthInterceptor(ctxtr.NewAuthenticator(authUC), v1.PublicMethods...)),
	))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	lis := bufconn.Listen(bufSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()

	ws := httptest.NewServer(realtimeapi.New(hub, notesUC, authUC).Router())

	t.Cleanup(func() {
		ws.Close()
		cancel()
		<-done
	})

	return &Backend{Repo: repo, Hub: hub, Notes: notesUC, Auth: authUC, lis: lis, ws: ws}
}

// DialOption routes Target to the in-process listener.
func (b *Backend) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return b.lis.DialContext(ctx)
	})
}

func (b *Backend) RealtimeURL() string {
	return "ws" + strings.TrimPrefix(b.ws.URL, "http") + realtimeapi.Path
}

// Signup registers a user directly through the usecase.
func (b *Backend) Signup(t testing.TB, name, email string) (string, entity.User) {
	t.Helper()

	token, user, err := b.Auth.Signup(context.Background(), name, email, "password")
	require.NoError(t, err)
	return token, user
}
