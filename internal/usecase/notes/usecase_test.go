package notes

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/memory"
)

type sharedEvent struct {
	userID string
	event  entity.NoteSharedEvent
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []sharedEvent
	removed []string
}

func (p *recordingPublisher) NoteShared(_ context.Context, userID string, event entity.NoteSharedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sharedEvent{userID: userID, event: event})
}

func (p *recordingPublisher) CollaboratorRemoved(_ context.Context, noteID, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, noteID+"/"+userID)
}

type fixture struct {
	uc        *Usecase
	repo      *memory.Repo
	publisher *recordingPublisher
	owner     entity.User
	reader    entity.User
	writer    entity.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctx := context.Background()
	repo := memory.New()
	publisher := &recordingPublisher{}

	uc, err := New(NewOptions(repo, WithPublisher(publisher)))
	require.NoError(t, err)

	users := make([]entity.User, 0, 3)
	for _, name := range []string{"owner", "reader", "writer"} {
		u, err := repo.CreateUser(ctx, entity.User{ID: name + "-id", Name: name, Email: name + "@example.com"}, "hash")
		require.NoError(t, err)
		users = append(users, u)
	}

	return fixture{uc: uc, repo: repo, publisher: publisher, owner: users[0], reader: users[1], writer: users[2]}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(NewOptions(nil))
	require.Error(t, err)

	_, err = New(NewOptions(memory.New(), WithPageSize(0)))
	require.Error(t, err)
}

func TestCreateNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateNote(ctx, f.owner.ID, "", "body")
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, err = f.uc.CreateNote(ctx, f.owner.ID, "title", "  ")
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	note, err := f.uc.CreateNote(ctx, f.owner.ID, "title", "body")
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, f.owner.ID, note.Owner.ID)
	assert.Equal(t, entity.NoteFields{Title: "title", Content: "body"}, note.Fields())
}

func TestAccessRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note, err := f.uc.CreateNote(ctx, f.owner.ID, "t", "c")
	require.NoError(t, err)

	require.NoError(t, f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.reader.ID, entity.PermissionRead))
	require.NoError(t, f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.writer.ID, entity.PermissionWrite))

	_, err = f.uc.GetNote(ctx, f.reader.ID, note.ID)
	require.NoError(t, err)

	_, err = f.uc.UpdateNote(ctx, f.reader.ID, note.ID, entity.NoteFields{Title: "x", Content: "y"})
	require.ErrorIs(t, err, entity.ErrForbidden)

	updated, err := f.uc.UpdateNote(ctx, f.writer.ID, note.ID, entity.NoteFields{Title: "x", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Title)
	assert.True(t, updated.LastUpdated.After(note.LastUpdated))

	_, err = f.uc.GetNote(ctx, "stranger", note.ID)
	require.ErrorIs(t, err, entity.ErrForbidden)

	err = f.uc.DeleteNote(ctx, f.writer.ID, note.ID)
	require.ErrorIs(t, err, entity.ErrForbidden)

	err = f.uc.ShareNote(ctx, f.writer.ID, note.ID, "someone", entity.PermissionRead)
	require.ErrorIs(t, err, entity.ErrForbidden)

	require.NoError(t, f.uc.DeleteNote(ctx, f.owner.ID, note.ID))

	_, err = f.uc.GetNote(ctx, f.owner.ID, note.ID)
	require.ErrorIs(t, err, entity.ErrNoteNotFound)
}

func TestShareNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note, err := f.uc.CreateNote(ctx, f.owner.ID, "Plans", "c")
	require.NoError(t, err)

	t.Run("invalid permission", func(t *testing.T) {
		err := f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.reader.ID, "admin")
		require.ErrorIs(t, err, entity.ErrInvalidArgument)
	})

	t.Run("owner as collaborator", func(t *testing.T) {
		err := f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.owner.ID, entity.PermissionRead)
		require.ErrorIs(t, err, entity.ErrConflict)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := f.uc.ShareNote(ctx, f.owner.ID, note.ID, "ghost", entity.PermissionRead)
		require.ErrorIs(t, err, entity.ErrUserNotFound)
	})

	t.Run("publishes note shared", func(t *testing.T) {
		require.NoError(t, f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.reader.ID, entity.PermissionRead))
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, sharedEvent{
			userID: f.reader.ID,
			event:  entity.NoteSharedEvent{NoteID: note.ID, Title: "Plans"},
		}, f.publisher.events[0])
	})

	t.Run("existing collaborator", func(t *testing.T) {
		err := f.uc.ShareNote(ctx, f.owner.ID, note.ID, f.reader.ID, entity.PermissionWrite)
		require.ErrorIs(t, err, entity.ErrConflict)
		assert.Len(t, f.publisher.events, 1)
	})

	t.Run("change and remove", func(t *testing.T) {
		require.NoError(t, f.uc.ChangePermission(ctx, f.owner.ID, note.ID, f.reader.ID, entity.PermissionWrite))

		got, err := f.uc.GetNote(ctx, f.owner.ID, note.ID)
		require.NoError(t, err)
		c, ok := got.Collaborator(f.reader.ID)
		require.True(t, ok)
		assert.Equal(t, entity.PermissionWrite, c.Permission)

		require.NoError(t, f.uc.RemoveCollaborator(ctx, f.owner.ID, note.ID, f.reader.ID))
		assert.Equal(t, []string{note.ID + "/" + f.reader.ID}, f.publisher.removed)

		err = f.uc.RemoveCollaborator(ctx, f.owner.ID, note.ID, f.reader.ID)
		require.ErrorIs(t, err, entity.ErrCollaboratorNotFound)
		assert.Len(t, f.publisher.removed, 1)

		_, err = f.uc.GetNote(ctx, f.reader.ID, note.ID)
		require.ErrorIs(t, err, entity.ErrForbidden)
	})
}

func TestListNotes_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var last entity.Note
	for i := range 7 {
		n, err := f.uc.CreateNote(ctx, f.owner.ID, fmt.Sprintf("note %d", i), "c")
		require.NoError(t, err)
		last = n
	}

	page, err := f.uc.ListNotes(ctx, f.owner.ID, entity.TabOwn, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Notes, 5)
	assert.Equal(t, last.ID, page.Notes[0].ID)

	page, err = f.uc.ListNotes(ctx, f.owner.ID, entity.TabOwn, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notes, 2)

	page, err = f.uc.ListNotes(ctx, f.owner.ID, entity.TabOwn, 9)
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
	assert.Equal(t, 2, page.TotalPages)

	shared, err := f.uc.ListNotes(ctx, f.reader.ID, entity.TabShared, 0)
	require.NoError(t, err)
	assert.Empty(t, shared.Notes)
	assert.Equal(t, 1, shared.Page)
	assert.Equal(t, 1, shared.TotalPages)

	require.NoError(t, f.uc.ShareNote(ctx, f.owner.ID, last.ID, f.reader.ID, entity.PermissionRead))

	shared, err = f.uc.ListNotes(ctx, f.reader.ID, entity.TabShared, 1)
	require.NoError(t, err)
	require.Len(t, shared.Notes, 1)
	assert.Equal(t, last.ID, shared.Notes[0].ID)
}

func TestGetUserByEmail(t *testing.T) {
	f := newFixture(t)

	u, err := f.uc.GetUserByEmail(context.Background(), " Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, f.reader, u)

	_, err = f.uc.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, entity.ErrUserNotFound)
}
