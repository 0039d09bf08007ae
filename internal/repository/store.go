package repository

import (
	"context"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

var _ Store = (*Repo)(nil)

// Store is the full storage surface used by the usecases.
type Store interface {
	CreateUser(ctx context.Context, user entity.User, passwordHash string) (entity.User, error)
	GetUser(ctx context.Context, id string) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	GetPasswordHash(ctx context.Context, email string) (entity.User, string, error)
	CreateToken(ctx context.Context, token, userID string) error
	GetUserIDByToken(ctx context.Context, token string) (string, error)

	CreateNote(ctx context.Context, id, ownerID, title, content string) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, fields entity.NoteFields) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, userID string, tab entity.Tab, limit, offset int) ([]entity.Note, int, error)

	AddCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error
	UpdateCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error
	RemoveCollaborator(ctx context.Context, noteID, userID string) error
}
