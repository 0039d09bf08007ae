// Package memory is an in-process implementation of the note store used for tests and local runs.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository"
)

var _ repository.Store = (*Repo)(nil)

type noteRecord struct {
	id            string
	ownerID       string
	title         string
	content       string
	collaborators []collaboratorRecord
	createdAt     time.Time
	updatedAt     time.Time
}

type collaboratorRecord struct {
	userID     string
	permission entity.Permission
}

type userRecord struct {
	user         entity.User
	passwordHash string
}

type Repo struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[string]userRecord
	emails map[string]string
	tokens map[string]string
	notes  map[string]*noteRecord
}

func New() *Repo {
	return &Repo{
		now:    time.Now,
		users:  make(map[string]userRecord),
		emails: make(map[string]string),
		tokens: make(map[string]string),
		notes:  make(map[string]*noteRecord),
	}
}

// tick returns a strictly increasing timestamp so ordering by update time is stable.
func (r *Repo) tick(prev time.Time) time.Time {
	t := r.now().UTC()
	if !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	return t
}

func (r *Repo) latest() time.Time {
	var last time.Time
	for _, n := range r.notes {
		if n.updatedAt.After(last) {
			last = n.updatedAt
		}
	}
	return last
}

func (r *Repo) CreateUser(_ context.Context, user entity.User, passwordHash string) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emails[user.Email]; ok {
		return entity.User{}, entity.ErrEmailTaken
	}

	r.users[user.ID] = userRecord{user: user, passwordHash: passwordHash}
	r.emails[user.Email] = user.ID

	return user, nil
}

func (r *Repo) GetUser(_ context.Context, id string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return entity.User{}, entity.ErrUserNotFound
	}
	return rec.user, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	u, _, err := r.GetPasswordHash(ctx, email)
	return u, err
}

func (r *Repo) GetPasswordHash(_ context.Context, email string) (entity.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return entity.User{}, "", entity.ErrUserNotFound
	}
	rec := r.users[id]
	return rec.user, rec.passwordHash, nil
}

func (r *Repo) CreateToken(_ context.Context, token, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = userID
	return nil
}

func (r *Repo) GetUserIDByToken(_ context.Context, token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.tokens[token]
	if !ok {
		return "", entity.ErrSessionExpired
	}
	return userID, nil
}

func (r *Repo) CreateNote(_ context.Context, id, ownerID, title, content string) (entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick(r.latest())
	r.notes[id] = &noteRecord{
		id:        id,
		ownerID:   ownerID,
		title:     title,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}

	return r.toEntity(r.notes[id]), nil
}

func (r *Repo) GetNote(_ context.Context, id string) (entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}
	return r.toEntity(n), nil
}

func (r *Repo) UpdateNote(_ context.Context, id string, fields entity.NoteFields) (entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	n.title = fields.Title
	n.content = fields.Content
	n.updatedAt = r.tick(r.latest())

	return r.toEntity(n), nil
}

func (r *Repo) DeleteNote(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return entity.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *Repo) ListNotes(_ context.Context, userID string, tab entity.Tab, limit, offset int) ([]entity.Note, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*noteRecord
	for _, n := range r.notes {
		switch tab {
		case entity.TabShared:
			if slices.ContainsFunc(n.collaborators, func(c collaboratorRecord) bool { return c.userID == userID }) {
				matched = append(matched, n)
			}
		default:
			if n.ownerID == userID {
				matched = append(matched, n)
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].updatedAt.Equal(matched[j].updatedAt) {
			return matched[i].updatedAt.After(matched[j].updatedAt)
		}
		return matched[i].id < matched[j].id
	})

	total := len(matched)
	notes := []entity.Note{}
	for i := offset; i < total && i < offset+limit; i++ {
		notes = append(notes, r.toEntity(matched[i]))
	}

	return notes, total, nil
}

func (r *Repo) AddCollaborator(_ context.Context, noteID, userID string, perm entity.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return entity.ErrNoteNotFound
	}
	if _, ok := r.users[userID]; !ok {
		return entity.ErrUserNotFound
	}
	if n.collaboratorIndex(userID) >= 0 {
		return entity.ErrAlreadyCollaborator
	}

	n.collaborators = append(n.collaborators, collaboratorRecord{userID: userID, permission: perm})
	return nil
}

func (r *Repo) UpdateCollaborator(_ context.Context, noteID, userID string, perm entity.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return entity.ErrNoteNotFound
	}
	idx := n.collaboratorIndex(userID)
	if idx < 0 {
		return entity.ErrCollaboratorNotFound
	}

	n.collaborators[idx].permission = perm
	return nil
}

func (r *Repo) RemoveCollaborator(_ context.Context, noteID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return entity.ErrNoteNotFound
	}
	idx := n.collaboratorIndex(userID)
	if idx < 0 {
		return entity.ErrCollaboratorNotFound
	}

	n.collaborators = slices.Delete(n.collaborators, idx, idx+1)
	return nil
}

func (n *noteRecord) collaboratorIndex(userID string) int {
	return slices.IndexFunc(n.collaborators, func(c collaboratorRecord) bool { return c.userID == userID })
}

func (r *Repo) toEntity(n *noteRecord) entity.Note {
	note := entity.Note{
		ID:          n.id,
		Title:       n.title,
		Content:     n.content,
		Owner:       r.users[n.ownerID].user,
		CreatedAt:   n.createdAt,
		LastUpdated: n.updatedAt,
	}

	for _, c := range n.collaborators {
		note.Collaborators = append(note.Collaborators, entity.Collaboration{
			User:       r.users[c.userID].user,
			Permission: c.permission,
		})
	}

	return note
}
