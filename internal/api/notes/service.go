package notes

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/evgeniy-krivenko/notes-collab/internal/api/notes/converter"
	"github.com/evgeniy-krivenko/notes-collab/internal/ctxtr"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
	"github.com/evgeniy-krivenko/notes-collab/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

var _ grpcx.Service = (*Service)(nil)

type notesUsecase interface {
	CreateNote(ctx context.Context, userID, title, content string) (entity.Note, error)
	GetNote(ctx context.Context, userID, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, userID, id string, fields entity.NoteFields) (entity.Note, error)
	DeleteNote(ctx context.Context, userID, id string) error
	ListNotes(ctx context.Context, userID string, tab entity.Tab, page int) (entity.NotesPage, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	ShareNote(ctx context.Context, ownerID, noteID, userID string, perm entity.Permission) error
	ChangePermission(ctx context.Context, ownerID, noteID, userID string, perm entity.Permission) error
	RemoveCollaborator(ctx context.Context, ownerID, noteID, userID string) error
}

type authUsecase interface {
	Signup(ctx context.Context, name, email, password string) (string, entity.User, error)
	Login(ctx context.Context, email, password string) (string, entity.User, error)
}

type Service struct {
	v1.UnimplementedNoteAPIServer

	notes notesUsecase
	auth  authUsecase
}

func New(notes notesUsecase, auth authUsecase) *Service {
	return &Service{notes: notes, auth: auth}
}

// RegisterService implements grpcx.Service.
func (s *Service) RegisterService(r grpc.ServiceRegistrar) {
	v1.RegisterNoteAPIServer(r, s)
}

func (s *Service) Signup(ctx context.Context, req *v1.SignupRequest) (*v1.AuthResponse, error) {
	token, user, err := s.auth.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.AuthResponse{Token: token, User: converter.ConvertUserToProto(user)}, nil
}

func (s *Service) Login(ctx context.Context, req *v1.LoginRequest) (*v1.AuthResponse, error) {
	token, user, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.AuthResponse{Token: token, User: converter.ConvertUserToProto(user)}, nil
}

func (s *Service) GetNote(ctx context.Context, req *v1.GetNoteRequest) (*v1.Note, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	note, err := s.notes.GetNote(ctx, userID, req.NoteId)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return converter.ConvertNoteToProto(note), nil
}

func (s *Service) CreateNote(ctx context.Context, req *v1.CreateNoteRequest) (*v1.Note, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	note, err := s.notes.CreateNote(ctx, userID, req.Title, req.Content)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return converter.ConvertNoteToProto(note), nil
}

func (s *Service) UpdateNote(ctx context.Context, req *v1.UpdateNoteRequest) (*v1.Note, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	note, err := s.notes.UpdateNote(ctx, userID, req.NoteId, entity.NoteFields{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return converter.ConvertNoteToProto(note), nil
}

func (s *Service) DeleteNote(ctx context.Context, req *v1.DeleteNoteRequest) (*v1.Empty, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	if err := s.notes.DeleteNote(ctx, userID, req.NoteId); err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.Empty{}, nil
}

func (s *Service) ListNotes(ctx context.Context, req *v1.ListNotesRequest) (*v1.ListNotesResponse, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	tab, err := entity.ParseTab(req.Tab)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	page, err := s.notes.ListNotes(ctx, userID, tab, int(req.Page))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.ListNotesResponse{
		Notes:      converter.ConvertNotesToProto(page.Notes),
		Page:       int32(page.Page),
		TotalPages: int32(page.TotalPages),
	}, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, req *v1.GetUserByEmailRequest) (*v1.User, error) {
	user, err := s.notes.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return converter.ConvertUserToProto(user), nil
}

func (s *Service) ShareNote(ctx context.Context, req *v1.ShareNoteRequest) (*v1.Empty, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	perm, err := entity.ParsePermission(string(req.Permission))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if err := s.notes.ShareNote(ctx, userID, req.NoteId, req.UserId, perm); err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.Empty{}, nil
}

func (s *Service) ChangePermission(ctx context.Context, req *v1.ChangePermissionRequest) (*v1.Empty, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	perm, err := entity.ParsePermission(string(req.Permission))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if err := s.notes.ChangePermission(ctx, userID, req.NoteId, req.UserId, perm); err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.Empty{}, nil
}

func (s *Service) RemoveCollaborator(ctx context.Context, req *v1.RemoveCollaboratorRequest) (*v1.Empty, error) {
	userID, err := ctxtr.UserID(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	if err := s.notes.RemoveCollaborator(ctx, userID, req.NoteId, req.UserId); err != nil {
		return nil, toStatus(ctx, err)
	}

	return &v1.Empty{}, nil
}

// toStatus maps domain errors onto gRPC codes. Unknown errors are logged and hidden.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, entity.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, entity.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, entity.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	slogx.Error(ctx, "internal error", slogx.Err(err))
	return status.Error(codes.Internal, "internal error")
}
