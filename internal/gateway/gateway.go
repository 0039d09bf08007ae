// Package gateway is the client side of the note store: a thin gRPC client
// that owns no state beyond the per-call credential source.
package gateway

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/evgeniy-krivenko/notes-collab/internal/api/notes/converter"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=gateway_options.gen.go -from-struct=Options
type Options struct {
	target string                        `option:"mandatory" validate:"required"`
	creds  credentials.PerRPCCredentials `option:"mandatory" validate:"required"`

	timeout     time.Duration `default:"10s"`
	dialOptions []grpc.DialOption
}

type Gateway struct {
	Options
	conn *grpc.ClientConn
	api  v1.NoteAPIClient
}

func New(opts Options) (*Gateway, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate gateway options: %v", err)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(opts.creds),
		grpc.WithChainUnaryInterceptor(slogx.LoggingInterceptor),
	}, opts.dialOptions...)

	conn, err := grpc.NewClient(opts.target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %v", err)
	}

	return &Gateway{Options: opts, conn: conn, api: v1.NewNoteAPIClient(conn)}, nil
}

func (g *Gateway) Close() error {
	return g.conn.Close()
}

func (g *Gateway) Signup(ctx context.Context, name, email, password string) (string, entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.Signup(ctx, &v1.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", entity.User{}, mapError("signup", err, entity.ErrNotFound)
	}

	return resp.Token, converter.ConvertUserToEntity(resp.User), nil
}

func (g *Gateway) Login(ctx context.Context, email, password string) (string, entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.Login(ctx, &v1.LoginRequest{Email: email, Password: password})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			return "", entity.User{}, fmt.Errorf("login: %w", entity.ErrInvalidCredentials)
		}
		return "", entity.User{}, mapError("login", err, entity.ErrNotFound)
	}

	return resp.Token, converter.ConvertUserToEntity(resp.User), nil
}

func (g *Gateway) FetchNote(ctx context.Context, id string) (entity.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.GetNote(ctx, &v1.GetNoteRequest{NoteId: id})
	if err != nil {
		return entity.Note{}, mapError("fetch note", err, entity.ErrNoteNotFound)
	}

	return converter.ConvertNoteToEntity(resp), nil
}

// SaveNote writes title and content together and returns the stored note.
func (g *Gateway) SaveNote(ctx context.Context, id string, fields entity.NoteFields) (entity.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.UpdateNote(ctx, &v1.UpdateNoteRequest{
		NoteId:  id,
		Title:   fields.Title,
		Content: fields.Content,
	})
	if err != nil {
		return entity.Note{}, mapError("save note", err, entity.ErrNoteNotFound)
	}

	return converter.ConvertNoteToEntity(resp), nil
}

func (g *Gateway) CreateNote(ctx context.Context, fields entity.NoteFields) (entity.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.CreateNote(ctx, &v1.CreateNoteRequest{Title: fields.Title, Content: fields.Content})
	if err != nil {
		return entity.Note{}, mapError("create note", err, entity.ErrNotFound)
	}

	return converter.ConvertNoteToEntity(resp), nil
}

func (g *Gateway) DeleteNote(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.api.DeleteNote(ctx, &v1.DeleteNoteRequest{NoteId: id}); err != nil {
		return mapError("delete note", err, entity.ErrNoteNotFound)
	}
	return nil
}

func (g *Gateway) ListNotes(ctx context.Context, tab entity.Tab, page int) (entity.NotesPage, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.ListNotes(ctx, &v1.ListNotesRequest{Page: int32(page), Tab: string(tab)})
	if err != nil {
		return entity.NotesPage{}, mapError("list notes", err, entity.ErrNotFound)
	}

	return entity.NotesPage{
		Notes:      converter.ConvertNotesToEntity(resp.Notes),
		Page:       int(resp.Page),
		TotalPages: int(resp.TotalPages),
	}, nil
}

func (g *Gateway) ResolveUserByEmail(ctx context.Context, email string) (entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.api.GetUserByEmail(ctx, &v1.GetUserByEmailRequest{Email: email})
	if err != nil {
		return entity.User{}, mapError("resolve user", err, entity.ErrUserNotFound)
	}

	return converter.ConvertUserToEntity(resp), nil
}

func (g *Gateway) ShareNote(ctx context.Context, noteID, userID string, perm entity.Permission) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.api.ShareNote(ctx, &v1.ShareNoteRequest{
		NoteId:     noteID,
		UserId:     userID,
		Permission: converter.ConvertPermissionToProto(perm),
	}); err != nil {
		return mapError("share note", err, entity.ErrNotFound)
	}
	return nil
}

func (g *Gateway) ChangePermission(ctx context.Context, noteID, userID string, perm entity.Permission) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.api.ChangePermission(ctx, &v1.ChangePermissionRequest{
		NoteId:     noteID,
		UserId:     userID,
		Permission: converter.ConvertPermissionToProto(perm),
	}); err != nil {
		return mapError("change permission", err, entity.ErrCollaboratorNotFound)
	}
	return nil
}

func (g *Gateway) RemoveCollaborator(ctx context.Context, noteID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.api.RemoveCollaborator(ctx, &v1.RemoveCollaboratorRequest{
		NoteId: noteID,
		UserId: userID,
	}); err != nil {
		return mapError("remove collaborator", err, entity.ErrCollaboratorNotFound)
	}
	return nil
}

// mapError turns a gRPC failure into the entity taxonomy. Anything that is
// not a definite answer from the server is a network error.
func mapError(op string, err error, notFound error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w: %v", op, entity.ErrNetwork, err)
	}

	var sentinel error
	switch st.Code() {
	case codes.NotFound:
		sentinel = notFound
	case codes.Unauthenticated:
		sentinel = entity.ErrSessionExpired
	case codes.PermissionDenied:
		sentinel = entity.ErrForbidden
	case codes.AlreadyExists:
		sentinel = entity.ErrConflict
	case codes.InvalidArgument:
		sentinel = entity.ErrInvalidArgument
	default:
		sentinel = entity.ErrNetwork
	}

	return fmt.Errorf("%s: %w: %s", op, sentinel, st.Message())
}
