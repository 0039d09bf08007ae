package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

type notesRepository interface {
	CreateNote(ctx context.Context, id, ownerID, title, content string) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, fields entity.NoteFields) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, userID string, tab entity.Tab, limit, offset int) ([]entity.Note, int, error)

	AddCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error
	UpdateCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error
	RemoveCollaborator(ctx context.Context, noteID, userID string) error

	GetUser(ctx context.Context, id string) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
}

// eventPublisher pushes note:shared to the collaborator's user room
// and evicts removed collaborators from the note room.
type eventPublisher interface {
	NoteShared(ctx context.Context, userID string, event entity.NoteSharedEvent)
	CollaboratorRemoved(ctx context.Context, noteID, userID string)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo      notesRepository `option:"mandatory" validate:"required"`
	publisher eventPublisher
	pageSize  int `default:"5" validate:"min=1,max=100"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate notes usecase options: %v", err)
	}

	if opts.publisher == nil {
		opts.publisher = noopPublisher{}
	}

	return &Usecase{Options: opts}, nil
}

func (u *Usecase) CreateNote(ctx context.Context, userID, title, content string) (entity.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return entity.Note{}, fmt.Errorf("usecase create note: title and content are required: %w", entity.ErrInvalidArgument)
	}

	note, err := u.repo.CreateNote(ctx, uuid.NewString(), userID, title, content)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
	}

	slogx.Info(ctx, "success to create note", slogx.UserID(userID), slogx.NoteID(note.ID))
	return note, nil
}

// GetNote returns the note if userID owns it or collaborates on it.
func (u *Usecase) GetNote(ctx context.Context, userID, id string) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", err)
	}

	if !note.CanRead(userID) {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", entity.ErrForbidden)
	}

	return note, nil
}

func (u *Usecase) UpdateNote(ctx context.Context, userID, id string, fields entity.NoteFields) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	if !note.CanWrite(userID) {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", entity.ErrForbidden)
	}

	updated, err := u.repo.UpdateNote(ctx, id, fields)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	slogx.Debug(ctx, "note updated", slogx.UserID(userID), slogx.NoteID(id))
	return updated, nil
}

func (u *Usecase) DeleteNote(ctx context.Context, userID, id string) error {
	if _, err := u.ownedNote(ctx, userID, id); err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	if err := u.repo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	slogx.Info(ctx, "note deleted", slogx.UserID(userID), slogx.NoteID(id))
	return nil
}

// ListNotes returns a 1-based page; pages past the end are empty but keep TotalPages.
func (u *Usecase) ListNotes(ctx context.Context, userID string, tab entity.Tab, page int) (entity.NotesPage, error) {
	if page < 1 {
		page = 1
	}

	notes, total, err := u.repo.ListNotes(ctx, userID, tab, u.pageSize, (page-1)*u.pageSize)
	if err != nil {
		return entity.NotesPage{}, fmt.Errorf("usecase list notes: %w", err)
	}

	return entity.NotesPage{
		Notes:      notes,
		Page:       page,
		TotalPages: entity.TotalPages(total, u.pageSize),
	}, nil
}

func (u *Usecase) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	user, err := u.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return entity.User{}, fmt.Errorf("usecase get user by email: %w", err)
	}

	return user, nil
}

func (u *Usecase) ShareNote(ctx context.Context, ownerID, noteID, userID string, perm entity.Permission) error {
	if !perm.Valid() {
		return fmt.Errorf("usecase share note: permission %q: %w", perm, entity.ErrInvalidArgument)
	}

	note, err := u.ownedNote(ctx, ownerID, noteID)
	if err != nil {
		return fmt.Errorf("usecase share note: %w", err)
	}

	if note.IsOwner(userID) {
		return fmt.Errorf("usecase share note: %w", entity.ErrOwnerCollaborator)
	}

	if _, err := u.repo.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("usecase share note: %w", err)
	}

	if err := u.repo.AddCollaborator(ctx, noteID, userID, perm); err != nil {
		return fmt.Errorf("usecase share note: %w", err)
	}

	u.publisher.NoteShared(ctx, userID, entity.NoteSharedEvent{NoteID: note.ID, Title: note.Title})

	slogx.Info(ctx, "note shared", slogx.NoteID(noteID), slogx.UserID(userID), slog.String("permission", string(perm)))
	return nil
}

func (u *Usecase) ChangePermission(ctx context.Context, ownerID, noteID, userID string, perm entity.Permission) error {
	if !perm.Valid() {
		return fmt.Errorf("usecase change permission: permission %q: %w", perm, entity.ErrInvalidArgument)
	}

	if _, err := u.ownedNote(ctx, ownerID, noteID); err != nil {
		return fmt.Errorf("usecase change permission: %w", err)
	}

	if err := u.repo.UpdateCollaborator(ctx, noteID, userID, perm); err != nil {
		return fmt.Errorf("usecase change permission: %w", err)
	}

	return nil
}

func (u *Usecase) RemoveCollaborator(ctx context.Context, ownerID, noteID, userID string) error {
	if _, err := u.ownedNote(ctx, ownerID, noteID); err != nil {
		return fmt.Errorf("usecase remove collaborator: %w", err)
	}

	if err := u.repo.RemoveCollaborator(ctx, noteID, userID); err != nil {
		return fmt.Errorf("usecase remove collaborator: %w", err)
	}

	u.publisher.CollaboratorRemoved(ctx, noteID, userID)

	slogx.Info(ctx, "collaborator removed", slogx.NoteID(noteID), slogx.UserID(userID))
	return nil
}

func (u *Usecase) ownedNote(ctx context.Context, userID, noteID string) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, noteID)
	if err != nil {
		return entity.Note{}, err
	}

	if !note.IsOwner(userID) {
		return entity.Note{}, entity.ErrForbidden
	}

	return note, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noopPublisher struct{}

func (noopPublisher) NoteShared(context.Context, string, entity.NoteSharedEvent) {}

func (noopPublisher) CollaboratorRemoved(context.Context, string, string) {}
