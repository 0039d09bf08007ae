package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/evgeniy-krivenko/notes-collab/internal/collab"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notesync"
)

// NoteView is one open note: its editor and its collaborator registry.
type NoteView struct {
	Editor   *notesync.Editor
	Registry *collab.Registry

	client      *Client
	unsubscribe func()
	once        sync.Once
}

// OpenNote loads a note into a new editor. On failure the editor is closed and the error
// returned; an expired session is logged out.
func (c *Client) OpenNote(ctx context.Context, id string) (*NoteView, error) {
	user, ok := c.User()
	if !ok {
		return nil, entity.ErrSessionExpired
	}

	opts := []notesync.OptOptionsSetter{
		notesync.WithNotifier(c.notifier),
		notesync.WithWindow(c.autosaveWindow),
	}
	if c.afterFunc != nil {
		opts = append(opts, notesync.WithAfterFunc(c.afterFunc))
	}

	ch := c.Channel()
	if ch != nil {
		opts = append(opts, notesync.WithChannel(ch))
	}

	editor, err := notesync.Open(ctx, notesync.NewOptions(id, c.gateway, opts...))
	if err != nil {
		if editor != nil {
			editor.Close()
		}
		return nil, c.check(ctx, err)
	}

	registry, err := collab.New(collab.NewOptions(
		c.gateway,
		editor.Note(),
		user.ID,
		collab.WithNotifier(c.notifier),
	))
	if err != nil {
		editor.Close()
		return nil, fmt.Errorf("open note: %v", err)
	}

	v := &NoteView{Editor: editor, Registry: registry, client: c}
	if ch != nil {
		v.unsubscribe = ch.OnNoteUpdated(registry.Reset)
	}

	c.mu.Lock()
	c.views[v] = struct{}{}
	c.mu.Unlock()

	return v, nil
}

// Close closes the editor; a pending autosave is dropped, a save in flight completes.
func (v *NoteView) Close() {
	v.once.Do(func() {
		v.Editor.Close()
		if v.unsubscribe != nil {
			v.unsubscribe()
		}

		v.client.mu.Lock()
		delete(v.client.views, v)
		v.client.mu.Unlock()
	})
}
