package localfile_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/localfile"
	"github.com/evgeniy-krivenko/notes-collab/internal/notesync"
)

const waitFor = 3 * time.Second

type memGateway struct {
	mu   sync.Mutex
	note entity.Note
}

func (g *memGateway) FetchNote(context.Context, string) (entity.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.note, nil
}

func (g *memGateway) SaveNote(_ context.Context, _ string, fields entity.NoteFields) (entity.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.note = g.note.WithFields(fields)
	g.note.LastUpdated = time.Now()
	return g.note, nil
}

func (g *memGateway) saved() entity.NoteFields {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.note.Fields()
}

func readFields(t *testing.T, path string) entity.NoteFields {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.NoteFields{}
	}
	fields, err := localfile.Decode(data)
	require.NoError(t, err)
	return fields
}

func TestMirror(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := &memGateway{note: entity.Note{ID: "n1", Title: "T", Content: "C"}}
	editor, err := notesync.Open(ctx, notesync.NewOptions("n1", gw, notesync.WithWindow(20*time.Millisecond)))
	require.NoError(t, err)
	defer editor.Close()

	m := localfile.NewMirror(t.TempDir(), editor)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool {
		return readFields(t, m.Path()) == entity.NoteFields{Title: "T", Content: "C"}
	}, waitFor, 10*time.Millisecond)

	// A file edit becomes a local edit and is autosaved.
	edited, err := localfile.Encode(entity.Note{ID: "n1", Title: "T2", Content: "typed in vim"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(m.Path(), edited, 0o644))

	require.Eventually(t, func() bool {
		return gw.saved() == entity.NoteFields{Title: "T2", Content: "typed in vim"}
	}, waitFor, 10*time.Millisecond)

	// A remote update is written back to the file.
	editor.ApplyRemote(entity.Note{ID: "n1", Title: "T3", Content: "from bob", LastUpdated: time.Now()})
	require.Eventually(t, func() bool {
		return readFields(t, m.Path()) == entity.NoteFields{Title: "T3", Content: "from bob"}
	}, waitFor, 10*time.Millisecond)

	editor.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("mirror did not stop after the editor closed")
	}
}
