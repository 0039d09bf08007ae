// Package collab manages the collaborators of one open note on behalf of its owner.
package collab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

type gateway interface {
	ResolveUserByEmail(ctx context.Context, email string) (entity.User, error)
	ShareNote(ctx context.Context, noteID, userID string, perm entity.Permission) error
	ChangePermission(ctx context.Context, noteID, userID string, perm entity.Permission) error
	RemoveCollaborator(ctx context.Context, noteID, userID string) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=registry_options.gen.go -from-struct=Options
type Options struct {
	gateway  gateway     `option:"mandatory" validate:"required"`
	note     entity.Note `option:"mandatory"`
	viewerID string      `option:"mandatory" validate:"required"`

	notifier notify.Notifier
}

// Registry mirrors the collaborator list of a note. Local state changes only
// after the gateway accepted the operation.
type Registry struct {
	Options

	mu      sync.Mutex
	owner   entity.User
	entries []entity.Collaboration
}

func New(opts Options) (*Registry, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate registry options: %v", err)
	}
	if opts.note.ID == "" {
		return nil, fmt.Errorf("validate registry options: note id: %w", entity.ErrInvalidArgument)
	}

	if opts.notifier == nil {
		opts.notifier = notify.Discard
	}

	r := &Registry{Options: opts}
	r.Reset(opts.note)

	return r, nil
}

func (r *Registry) NoteID() string {
	return r.note.ID
}

// CanManage reports whether the viewer owns the note. The gateway enforces the same rule.
func (r *Registry) CanManage() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner.ID == r.viewerID
}

func (r *Registry) Entries() []entity.Collaboration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Collaboration(nil), r.entries...)
}

// Reset replaces the local list with the collaborators of a freshly loaded or pushed note.
func (r *Registry) Reset(note entity.Note) {
	if note.ID != r.note.ID {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.owner = note.Owner
	r.entries = append([]entity.Collaboration(nil), note.Collaborators...)
}

// Add resolves the user by email and shares the note with them. An empty permission means read.
func (r *Registry) Add(ctx context.Context, email string, perm entity.Permission) (entity.Collaboration, error) {
	perm, err := entity.ParsePermission(string(perm))
	if err != nil {
		r.notifier.Notify(ctx, notify.Error("Unknown permission."))
		return entity.Collaboration{}, fmt.Errorf("add collaborator: %w", err)
	}

	email = strings.TrimSpace(email)
	if email == "" {
		r.notifier.Notify(ctx, notify.Error("Email is required."))
		return entity.Collaboration{}, fmt.Errorf("add collaborator: email: %w", entity.ErrInvalidArgument)
	}

	user, err := r.gateway.ResolveUserByEmail(ctx, email)
	if err != nil {
		r.fail(ctx, "resolve collaborator", "Failed to add collaborator", err)
		return entity.Collaboration{}, fmt.Errorf("add collaborator: %w", err)
	}

	if err := r.gateway.ShareNote(ctx, r.note.ID, user.ID, perm); err != nil {
		r.fail(ctx, "share note", "Failed to add collaborator", err)
		return entity.Collaboration{}, fmt.Errorf("add collaborator: %w", err)
	}

	c := entity.Collaboration{User: user, Permission: perm}

	r.mu.Lock()
	if i := r.indexLocked(user.ID); i >= 0 {
		r.entries[i] = c
	} else {
		r.entries = append(r.entries, c)
	}
	r.mu.Unlock()

	slogx.Info(ctx, "collaborator added", slogx.NoteID(r.note.ID), slogx.UserID(user.ID))
	r.notifier.Notify(ctx, notify.Success("Collaborator added!"))

	return c, nil
}

func (r *Registry) ChangePermission(ctx context.Context, userID string, perm entity.Permission) error {
	if !perm.Valid() {
		r.notifier.Notify(ctx, notify.Error("Unknown permission."))
		return fmt.Errorf("change permission %q: %w", perm, entity.ErrInvalidArgument)
	}

	if err := r.gateway.ChangePermission(ctx, r.note.ID, userID, perm); err != nil {
		r.fail(ctx, "change permission", "Failed to change permission", err)
		return fmt.Errorf("change permission: %w", err)
	}

	r.mu.Lock()
	if i := r.indexLocked(userID); i >= 0 {
		r.entries[i].Permission = perm
	}
	r.mu.Unlock()

	r.notifier.Notify(ctx, notify.Success("Permission updated"))
	return nil
}

func (r *Registry) Remove(ctx context.Context, userID string) error {
	if err := r.gateway.RemoveCollaborator(ctx, r.note.ID, userID); err != nil {
		r.fail(ctx, "remove collaborator", "Failed to remove collaborator", err)
		return fmt.Errorf("remove collaborator: %w", err)
	}

	r.mu.Lock()
	kept := r.entries[:0]
	for _, c := range r.entries {
		if c.User.ID != userID {
			kept = append(kept, c)
		}
	}
	r.entries = kept
	r.mu.Unlock()

	r.notifier.Notify(ctx, notify.Success("Collaborator removed"))
	return nil
}

func (r *Registry) indexLocked(userID string) int {
	for i, c := range r.entries {
		if c.User.ID == userID {
			return i
		}
	}
	return -1
}

func (r *Registry) fail(ctx context.Context, op, fallback string, err error) {
	slogx.Warn(ctx, op, slogx.NoteID(r.note.ID), slogx.Err(err))
	r.notifier.Notify(ctx, notify.Error(failureMessage(err, fallback)))
}

func failureMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		return "User not found."
	case errors.Is(err, entity.ErrCollaboratorNotFound):
		return "User is not a collaborator."
	case errors.Is(err, entity.ErrNotFound):
		return "Note not found."
	case errors.Is(err, entity.ErrConflict):
		return "User is already a collaborator."
	case errors.Is(err, entity.ErrSessionExpired):
		return "Session expired. Please log in again."
	case errors.Is(err, entity.ErrUnauthorized):
		return "Only the owner can manage collaborators."
	default:
		return fallback
	}
}
