package localfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notesync"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

type editor interface {
	NoteID() string
	View() notesync.View
	Watch(ctx context.Context) <-chan notesync.View
	SetFields(ctx context.Context, fields entity.NoteFields) error
}

// Mirror keeps one file and one editor in step: file changes become local edits,
// displayed changes are written back to the file.
type Mirror struct {
	path   string
	editor editor

	// fields last seen on disk, written or read.
	fields entity.NoteFields
}

func NewMirror(dir string, e editor) *Mirror {
	return &Mirror{
		path:   filepath.Join(dir, e.NoteID()+".md"),
		editor: e,
	}
}

func (m *Mirror) Path() string {
	return m.path
}

// Run writes the note to disk and mirrors changes until ctx is done or the editor closes.
func (m *Mirror) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create mirror dir: %w", err)
	}

	if err := m.write(m.editor.View().Note); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file by rename, so the directory is watched.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(m.path), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	views := m.editor.Watch(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case view, ok := <-views:
			if !ok {
				return nil
			}
			if view.State == notesync.StateClosed {
				return nil
			}
			if view.State == notesync.StateLoading || view.State == notesync.StateError {
				continue
			}
			if view.Note.Fields() != m.fields {
				if err := m.write(view.Note); err != nil {
					slogx.Warn(ctx, "write mirror file", slogx.NoteID(view.Note.ID), slogx.Err(err))
				}
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != m.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			m.read(ctx)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			slogx.Warn(ctx, "fsnotify error", slogx.Err(wErr))
		}
	}
}

func (m *Mirror) read(ctx context.Context) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		slogx.Debug(ctx, "read mirror file", slogx.Err(err))
		return
	}
	// Truncated by a writer that has not finished yet.
	if len(data) == 0 {
		return
	}

	fields, err := Decode(data)
	if err != nil {
		slogx.Warn(ctx, "parse mirror file", slogx.Err(err))
		return
	}
	if fields == m.fields {
		return
	}

	m.fields = fields
	if err := m.editor.SetFields(ctx, fields); err != nil {
		slogx.Warn(ctx, "apply file change", slogx.NoteID(m.editor.NoteID()), slogx.Err(err))
	}
}

// write replaces the file atomically so the watcher never reads a partial note.
func (m *Mirror) write(note entity.Note) error {
	data, err := Encode(note)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".notesync-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replace %s: %w", m.path, err)
	}

	m.fields = note.Fields()
	return nil
}
