package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/autosave/autosavetest"
	"github.com/evgeniy-krivenko/notes-collab/internal/backendtest"
	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notesync"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify/notifytest"
	"github.com/evgeniy-krivenko/notes-collab/internal/realtime"
	"github.com/evgeniy-krivenko/notes-collab/internal/session"
)

const waitFor = 2 * time.Second

type harness struct {
	client   *client.Client
	store    *session.MemoryStore
	clock    *autosavetest.Clock
	notifier *notifytest.Recorder
}

func newClient(t *testing.T, b *backendtest.Backend, store *session.MemoryStore) harness {
	t.Helper()

	h := harness{store: store, clock: &autosavetest.Clock{}, notifier: &notifytest.Recorder{}}

	c, err := client.New(context.Background(), client.NewOptions(
		backendtest.Target,
		b.RealtimeURL(),
		store,
		client.WithNotifier(h.notifier),
		client.WithAfterFunc(h.clock.AfterFunc),
		client.WithReconnectDelay(10*time.Millisecond),
		client.WithDialOptions(b.DialOption()),
	))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	h.client = c
	return h
}

func TestClient_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	b := backendtest.Start(t)
	store := session.NewMemoryStore()

	h := newClient(t, b, store)
	_, ok := h.client.User()
	require.False(t, ok)
	assert.Nil(t, h.client.Channel())

	user, err := h.client.Signup(ctx, "Alice", "alice@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, h.client.Channel())
	assert.True(t, h.client.Channel().Available())

	restored := newClient(t, b, store)
	got, ok := restored.client.User()
	require.True(t, ok)
	assert.Equal(t, user, got)
	require.NotNil(t, restored.client.Channel())
	assert.True(t, restored.client.Channel().Available())

	ch := restored.client.Channel()
	require.NoError(t, restored.client.Logout(ctx))
	assert.Equal(t, realtime.StatusClosed, ch.Status())
	assert.Nil(t, restored.client.Channel())
	_, ok = restored.client.User()
	assert.False(t, ok)

	_, err = store.Get(session.KeyToken)
	assert.ErrorIs(t, err, session.ErrKeyNotFound)

	_, err = h.client.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)
	_, err = h.client.Login(ctx, "alice@example.com", "password")
	require.NoError(t, err)
}

func TestClient_ExpiredSessionLogsOut(t *testing.T) {
	ctx := context.Background()
	b := backendtest.Start(t)

	store := session.NewMemoryStore()
	sess, err := session.Restore(ctx, store)
	require.NoError(t, err)
	require.NoError(t, sess.Login("revoked", entity.User{ID: "u1", Name: "Ghost", Email: "ghost@example.com"}))

	h := newClient(t, b, store)

	_, ok := h.client.User()
	assert.False(t, ok)
	assert.True(t, h.notifier.Has(notify.Error("Session expired. Please log in again.")))

	_, err = h.client.ListNotes(ctx, entity.TabOwn, 1)
	require.ErrorIs(t, err, entity.ErrSessionExpired)
}

func TestClient_ForbiddenKeepsSession(t *testing.T) {
	ctx := context.Background()
	b := backendtest.Start(t)
	_, alice := b.Signup(t, "Alice", "alice@example.com")
	note, err := b.Notes.CreateNote(ctx, alice.ID, "private", "C")
	require.NoError(t, err)

	h := newClient(t, b, session.NewMemoryStore())
	_, err = h.client.Signup(ctx, "Bob", "bob@example.com", "password")
	require.NoError(t, err)

	_, err = h.client.OpenNote(ctx, note.ID)
	require.ErrorIs(t, err, entity.ErrForbidden)

	_, ok := h.client.User()
	assert.True(t, ok)
	assert.True(t, h.notifier.Has(notify.Error("Failed to load note.")))

	_, err = h.client.OpenNote(ctx, "missing")
	require.ErrorIs(t, err, entity.ErrNoteNotFound)
	assert.True(t, h.notifier.Has(notify.Error("Note not found.")))
}

// Alice shares a note with Bob, both open it, Alice's autosave reaches Bob's editor.
func TestClient_CollaborativeEditing(t *testing.T) {
	ctx := context.Background()
	b := backendtest.Start(t)

	alice := newClient(t, b, session.NewMemoryStore())
	_, err := alice.client.Signup(ctx, "Alice", "alice@example.com", "password")
	require.NoError(t, err)

	bob := newClient(t, b, session.NewMemoryStore())
	bobUser, err := bob.client.Signup(ctx, "Bob", "bob@example.com", "password")
	require.NoError(t, err)

	shared := make(chan entity.NoteSharedEvent, 1)
	defer bob.client.OnNoteShared(func(e entity.NoteSharedEvent) { shared <- e })()

	require.Eventually(t, func() bool {
		return b.Hub.Members(realtime.UserRoom(bobUser.ID)) == 1
	}, waitFor, 5*time.Millisecond)

	note, err := alice.client.CreateNote(ctx, entity.NoteFields{Title: "T", Content: "C"})
	require.NoError(t, err)

	reg, err := alice.client.Collaborators(ctx, note.ID)
	require.NoError(t, err)
	_, err = reg.Add(ctx, "bob@example.com", entity.PermissionWrite)
	require.NoError(t, err)

	select {
	case e := <-shared:
		assert.Equal(t, note.ID, e.NoteID)
	case <-time.After(waitFor):
		t.Fatal("note:shared not delivered")
	}

	viewA, err := alice.client.OpenNote(ctx, note.ID)
	require.NoError(t, err)
	viewB, err := bob.client.OpenNote(ctx, note.ID)
	require.NoError(t, err)

	assert.True(t, viewA.Registry.CanManage())
	assert.False(t, viewB.Registry.CanManage())
	require.Len(t, viewB.Registry.Entries(), 1)

	require.Eventually(t, func() bool {
		return b.Hub.Members(realtime.NoteRoom(note.ID)) == 2
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, viewA.Editor.SetContent(ctx, "C2"))
	alice.clock.Advance(time.Second)
	assert.True(t, alice.notifier.Has(notify.Success("Note saved")))

	require.Eventually(t, func() bool {
		return viewB.Editor.Note().Content == "C2"
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, notesync.StateReady, viewB.Editor.State())

	viewA.Close()
	viewA.Close()
	assert.Equal(t, notesync.StateClosed, viewA.Editor.State())

	require.NoError(t, bob.client.Logout(ctx))
	assert.Equal(t, notesync.StateClosed, viewB.Editor.State())
}
