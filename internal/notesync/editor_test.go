package notesync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/evgeniy-krivenko/notes-collab/internal/autosave/autosavetest"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify/notifytest"
)

const window = time.Second

var (
	owner = entity.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	note  = entity.Note{
		ID:          "n1",
		Title:       "T",
		Content:     "C",
		Owner:       owner,
		LastUpdated: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
)

type harness struct {
	editor   *Editor
	gateway  *fakeGateway
	channel  *fakeChannel
	clock    *autosavetest.Clock
	notifier *notifytest.Recorder
}

func newHarness(t require.TestingT, gw *fakeGateway) harness {
	h := harness{
		gateway:  gw,
		channel:  newFakeChannel(),
		clock:    &autosavetest.Clock{},
		notifier: &notifytest.Recorder{},
	}

	e, err := New(NewOptions(
		note.ID,
		h.gateway,
		WithChannel(h.channel),
		WithNotifier(h.notifier),
		WithWindow(window),
		WithAfterFunc(h.clock.AfterFunc),
	))
	require.NoError(t, err)
	h.editor = e

	return h
}

func openHarness(t require.TestingT) harness {
	h := newHarness(t, newFakeGateway(note))
	require.NoError(t, h.editor.Load(context.Background()))
	return h
}

func remote(content string, at time.Time) entity.Note {
	n := note.WithFields(entity.NoteFields{Title: "T", Content: content})
	n.LastUpdated = at
	return n
}

func TestEditor_Open(t *testing.T) {
	h := openHarness(t)

	v := h.editor.View()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, note.Fields(), v.Note.Fields())
	assert.False(t, v.Dirty)
	assert.Equal(t, []string{note.ID}, h.channel.joins)
}

func TestEditor_LoadFailures(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr error
		message string
	}{
		{name: "not found", err: entity.ErrNoteNotFound, wantErr: entity.ErrNotFound, message: "Note not found."},
		{name: "network", err: fmt.Errorf("fetch note: %w", entity.ErrNetwork), wantErr: entity.ErrNetwork, message: "Failed to load note."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newFakeGateway()
			gw.fetchErr = tc.err
			h := newHarness(t, gw)

			err := h.editor.Load(context.Background())
			require.ErrorIs(t, err, tc.wantErr)

			v := h.editor.View()
			assert.Equal(t, StateError, v.State)
			assert.ErrorIs(t, v.Err, tc.wantErr)
			assert.True(t, h.notifier.Has(notify.Error(tc.message)))

			assert.ErrorIs(t, h.editor.SetContent(context.Background(), "x"), ErrNotEditable)
		})
	}
}

func TestEditor_EditBeforeLoad(t *testing.T) {
	h := newHarness(t, newFakeGateway(note))
	assert.Equal(t, StateLoading, h.editor.State())
	assert.ErrorIs(t, h.editor.SetContent(context.Background(), "x"), ErrNotEditable)
}

// Open (T, C), edit content to C2, wait past the window: one save of C2 and a success notice.
func TestEditor_AutosaveScenario(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)

	require.NoError(t, h.editor.SetContent(ctx, "C"))
	require.NoError(t, h.editor.SetContent(ctx, "C2"))

	v := h.editor.View()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, "C2", v.Note.Content)
	assert.Empty(t, h.gateway.Saves())

	h.clock.Advance(window)

	assert.Equal(t, []entity.NoteFields{{Title: "T", Content: "C2"}}, h.gateway.Saves())
	assert.Equal(t, []notify.Notification{notify.Success("Note saved")}, h.notifier.All())

	v = h.editor.View()
	assert.Equal(t, StateReady, v.State)
	assert.False(t, v.Dirty)

	updates := h.channel.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "C2", updates[0].Content)
}

func TestEditor_SaveFailureKeepsBuffer(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)
	h.gateway.setSaveErr(entity.ErrNetwork)

	require.NoError(t, h.editor.SetTitle(ctx, "T2"))
	h.clock.Advance(window)

	assert.True(t, h.notifier.Has(notify.Error("Failed to save note")))
	v := h.editor.View()
	assert.Equal(t, StateEditing, v.State)
	assert.True(t, v.Dirty)
	assert.Equal(t, entity.NoteFields{Title: "T2", Content: "C"}, v.Note.Fields())
	assert.Empty(t, h.channel.Updates())

	// No automatic retry.
	h.clock.Advance(10 * window)
	assert.Len(t, h.gateway.Saves(), 1)

	h.gateway.setSaveErr(nil)
	require.NoError(t, h.editor.SaveNow(ctx))
	assert.Equal(t, entity.NoteFields{Title: "T2", Content: "C"}, h.gateway.Saves()[1])
	assert.False(t, h.editor.View().Dirty)
}

func TestEditor_SaveNowBypassesTimer(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)

	require.NoError(t, h.editor.SetContent(ctx, "now"))
	require.NoError(t, h.editor.SaveNow(ctx))
	assert.Len(t, h.gateway.Saves(), 1)

	h.clock.Advance(2 * window)
	assert.Len(t, h.gateway.Saves(), 1)
	assert.Zero(t, h.clock.Armed())
}

func TestEditor_CloseCancelsPendingSave(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)

	require.NoError(t, h.editor.SetContent(ctx, "unsaved"))
	h.editor.Close()
	h.clock.Advance(2 * window)

	assert.Empty(t, h.gateway.Saves())
	assert.Equal(t, StateClosed, h.editor.State())
	assert.Zero(t, h.channel.Subscribers())
	assert.ErrorIs(t, h.editor.SetContent(ctx, "x"), ErrNotEditable)

	h.editor.ApplyRemote(remote("late", time.Now()))
	assert.Equal(t, "unsaved", h.editor.Note().Content)
}

func TestEditor_CloseKeepsInFlightSave(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)
	gate := make(chan struct{})
	h.gateway.gate = gate

	require.NoError(t, h.editor.SetContent(ctx, "in flight"))

	done := make(chan error, 1)
	go func() { done <- h.editor.SaveNow(ctx) }()

	require.Eventually(t, func() bool { return h.editor.State() == StateSaving }, time.Second, time.Millisecond)
	h.editor.Close()
	close(gate)

	require.NoError(t, <-done)
	assert.Equal(t, []entity.NoteFields{{Title: "T", Content: "in flight"}}, h.gateway.Saves())
	assert.Len(t, h.channel.Updates(), 1)
}

func TestEditor_RemoteUpdate(t *testing.T) {
	ctx := context.Background()
	h := openHarness(t)

	h.channel.Emit(remote("from bob", time.Now()))
	v := h.editor.View()
	assert.Equal(t, "from bob", v.Note.Content)
	assert.Equal(t, StateReady, v.State)

	other := remote("other", time.Now())
	other.ID = "n2"
	h.channel.Emit(other)
	assert.Equal(t, "from bob", h.editor.Note().Content)

	// A local save lands at T1, unflushed edits follow, a remote update arrives at T2 > T1.
	require.NoError(t, h.editor.SetContent(ctx, "mine"))
	h.clock.Advance(window)
	require.NoError(t, h.editor.SetContent(ctx, "mine, more"))

	h.channel.Emit(remote("theirs", time.Now()))
	v = h.editor.View()
	assert.Equal(t, "theirs", v.Note.Content)
	assert.True(t, v.Dirty, "pending save survives")

	// The pending save lands last and wins.
	h.clock.Advance(window)
	assert.Equal(t, "mine, more", h.editor.Note().Content)
	assert.False(t, h.editor.View().Dirty)
}

func TestEditor_RemoteDuringLoad(t *testing.T) {
	t.Run("newer update wins", func(t *testing.T) {
		h := newHarness(t, newFakeGateway(note))
		h.editor.ApplyRemote(remote("newer", note.LastUpdated.Add(time.Hour)))
		assert.Equal(t, StateLoading, h.editor.State())

		require.NoError(t, h.editor.Load(context.Background()))
		assert.Equal(t, "newer", h.editor.Note().Content)
	})

	t.Run("stale update dropped", func(t *testing.T) {
		h := newHarness(t, newFakeGateway(note))
		h.editor.ApplyRemote(remote("stale", note.LastUpdated.Add(-time.Hour)))

		require.NoError(t, h.editor.Load(context.Background()))
		assert.Equal(t, "C", h.editor.Note().Content)
	})
}

func TestEditor_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(t, newFakeGateway(note))
	views := h.editor.Watch(ctx)

	first := <-views
	assert.Equal(t, StateLoading, first.State)

	require.NoError(t, h.editor.Load(ctx))

	require.Eventually(t, func() bool {
		select {
		case v := <-views:
			return v.State == StateReady && v.Note.Content == "C"
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-views:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

// The displayed note is always the last applied note, or the latest local edit on top of it.
func TestEditor_LastWriterWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		h := openHarness(t)

		base := note.Fields()
		var local entity.NoteFields
		localOnTop := false
		pending := false
		at := time.Now()

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := range steps {
			content := fmt.Sprintf("v%d", i)

			switch rapid.SampledFrom([]string{"edit", "flush", "remote"}).Draw(t, "op") {
			case "edit":
				if err := h.editor.SetContent(ctx, content); err != nil {
					t.Fatalf("edit: %v", err)
				}
				local = entity.NoteFields{Title: "T", Content: content}
				localOnTop, pending = true, true

			case "flush":
				h.clock.Advance(window)
				if pending {
					base = local
					localOnTop, pending = false, false
				}

			case "remote":
				at = at.Add(time.Second)
				r := remote(content, at)
				h.channel.Emit(r)
				base = r.Fields()
				localOnTop = false
			}

			want := base
			if localOnTop {
				want = local
			}

			v := h.editor.View()
			if v.Note.Fields() != want {
				t.Fatalf("step %d: displayed %v, want %v", i, v.Note.Fields(), want)
			}
			if v.Dirty != pending {
				t.Fatalf("step %d: dirty %v, want %v", i, v.Dirty, pending)
			}
		}
	})
}
