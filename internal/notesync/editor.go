// Package notesync keeps one open note consistent between local edits and remote updates.
// Conflicts resolve by last writer wins: whichever note is applied last is displayed.
package notesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/imkira/go-observer"

	"github.com/evgeniy-krivenko/notes-collab/internal/autosave"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

var ErrNotEditable = errors.New("note is not open for editing")

type State int

const (
	StateLoading State = iota
	StateReady
	StateEditing
	StateSaving
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateClosed:
		return "closed"
	default:
		return "error"
	}
}

// View is a snapshot of what the editor displays.
type View struct {
	State State
	Note  entity.Note
	Dirty bool
	Err   error
}

type gateway interface {
	FetchNote(ctx context.Context, id string) (entity.Note, error)
	SaveNote(ctx context.Context, id string, fields entity.NoteFields) (entity.Note, error)
}

type channel interface {
	JoinNoteRoom(ctx context.Context, noteID string) error
	UpdateNote(ctx context.Context, note entity.Note) error
	OnNoteUpdated(fn func(entity.Note)) func()
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=editor_options.gen.go -from-struct=Options
type Options struct {
	noteID  string  `option:"mandatory" validate:"required"`
	gateway gateway `option:"mandatory" validate:"required"`

	channel   channel
	notifier  notify.Notifier
	window    time.Duration `default:"1s" validate:"min=0"`
	afterFunc autosave.AfterFunc
}

type Editor struct {
	Options

	sched *autosave.Scheduler
	prop  observer.Property

	mu          sync.Mutex
	loaded      bool
	closed      bool
	loadErr     error
	base        entity.Note
	shown       entity.Note
	dirty       bool
	rev         uint64
	inFlight    int
	early       *entity.Note
	unsubscribe func()
}

func New(opts Options) (*Editor, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate editor options: %v", err)
	}

	if opts.notifier == nil {
		opts.notifier = notify.Discard
	}

	e := &Editor{
		Options: opts,
		prop:    observer.NewProperty(View{State: StateLoading}),
	}

	schedOpts := []autosave.OptOptionsSetter{autosave.WithWindow(opts.window)}
	if opts.afterFunc != nil {
		schedOpts = append(schedOpts, autosave.WithAfterFunc(opts.afterFunc))
	}

	sched, err := autosave.New(autosave.NewOptions(
		func(ctx context.Context, p autosave.Payload) { _ = e.save(ctx, p) },
		schedOpts...,
	))
	if err != nil {
		return nil, fmt.Errorf("init autosave: %v", err)
	}
	e.sched = sched

	return e, nil
}

// Open creates the editor and loads the note. The editor is returned even when loading fails.
func Open(ctx context.Context, opts Options) (*Editor, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}

	return e, e.Load(ctx)
}

// Load joins the note room and fetches the note.
// Subscribing first means an update racing the fetch is not lost.
func (e *Editor) Load(ctx context.Context) error {
	if e.channel != nil {
		unsubscribe := e.channel.OnNoteUpdated(e.ApplyRemote)

		e.mu.Lock()
		e.unsubscribe = unsubscribe
		e.mu.Unlock()

		if err := e.channel.JoinNoteRoom(ctx, e.noteID); err != nil {
			slogx.Warn(ctx, "join note room", slogx.NoteID(e.noteID), slogx.Err(err))
		}
	}

	note, err := e.gateway.FetchNote(ctx, e.noteID)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrNotEditable
	}

	if err != nil {
		e.loadErr = err
		e.mu.Unlock()
		e.publish()

		if errors.Is(err, entity.ErrNotFound) {
			e.notifier.Notify(ctx, notify.Error("Note not found."))
		} else {
			e.notifier.Notify(ctx, notify.Error("Failed to load note."))
		}
		return fmt.Errorf("load note: %w", err)
	}

	if e.early != nil && e.early.LastUpdated.After(note.LastUpdated) {
		note = *e.early
	}
	e.early = nil
	e.loaded = true
	e.base = note
	e.shown = note.Clone()
	e.mu.Unlock()

	e.publish()
	return nil
}

func (e *Editor) NoteID() string {
	return e.noteID
}

func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Editor) State() State {
	return e.View().State
}

// Note returns the displayed note.
func (e *Editor) Note() entity.Note {
	return e.View().Note
}

func (e *Editor) SetTitle(ctx context.Context, title string) error {
	return e.edit(ctx, func(f entity.NoteFields) entity.NoteFields {
		f.Title = title
		return f
	})
}

func (e *Editor) SetContent(ctx context.Context, content string) error {
	return e.edit(ctx, func(f entity.NoteFields) entity.NoteFields {
		f.Content = content
		return f
	})
}

// SetFields replaces both fields at once.
func (e *Editor) SetFields(ctx context.Context, fields entity.NoteFields) error {
	return e.edit(ctx, func(entity.NoteFields) entity.NoteFields { return fields })
}

// edit applies a local change on top of the authoritative note and arms autosave.
func (e *Editor) edit(ctx context.Context, change func(entity.NoteFields) entity.NoteFields) error {
	e.mu.Lock()
	if !e.editableLocked() {
		e.mu.Unlock()
		return ErrNotEditable
	}

	fields := change(e.shown.Fields())
	e.rev++
	e.shown = e.base.WithFields(fields)
	e.dirty = true
	e.sched.Schedule(ctx, autosave.Payload{NoteID: e.noteID, Fields: fields, Rev: e.rev})
	e.mu.Unlock()

	e.publish()
	return nil
}

// SaveNow cancels the debounce timer and writes the displayed fields immediately.
func (e *Editor) SaveNow(ctx context.Context) error {
	e.mu.Lock()
	if !e.editableLocked() {
		e.mu.Unlock()
		return ErrNotEditable
	}
	p := autosave.Payload{NoteID: e.noteID, Fields: e.shown.Fields(), Rev: e.rev}
	e.mu.Unlock()

	e.sched.Cancel()
	return e.save(ctx, p)
}

// ApplyRemote replaces the authoritative and displayed note with a pushed update.
// A pending local save survives and overwrites the note again when it lands.
func (e *Editor) ApplyRemote(note entity.Note) {
	if note.ID != e.noteID {
		return
	}

	e.mu.Lock()
	switch {
	case e.closed || e.loadErr != nil:
		e.mu.Unlock()
		return
	case !e.loaded:
		n := note.Clone()
		e.early = &n
		e.mu.Unlock()
		return
	}

	e.base = note
	e.shown = note.Clone()
	_, pending := e.sched.Pending()
	e.dirty = pending
	e.mu.Unlock()

	e.publish()
}

// Close cancels a pending save and stops remote updates. A save already in flight still completes.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	e.sched.Stop()
	if unsubscribe != nil {
		unsubscribe()
	}

	e.publish()
}

// Watch streams displayed state changes until ctx is done. The current view is sent first.
func (e *Editor) Watch(ctx context.Context) <-chan View {
	stream := e.prop.Observe()

	result := make(chan View, 1)
	result <- stream.Value().(View)

	go func() {
		defer close(result)
		for {
			select {
			case <-ctx.Done():
				return

			case <-stream.Changes():
				view := stream.Next().(View)

				select {
				case <-ctx.Done():
					return
				case result <- view:
				}
			}
		}
	}()

	return result
}

func (e *Editor) save(ctx context.Context, p autosave.Payload) error {
	e.mu.Lock()
	e.inFlight++
	e.mu.Unlock()
	e.publish()

	saved, err := e.gateway.SaveNote(ctx, p.NoteID, p.Fields)

	e.mu.Lock()
	e.inFlight--
	if err != nil {
		e.mu.Unlock()
		e.publish()

		slogx.Warn(ctx, "save note", slogx.NoteID(p.NoteID), slogx.Err(err))
		e.notifier.Notify(ctx, notify.Error("Failed to save note"))
		return fmt.Errorf("save note: %w", err)
	}

	if !e.closed {
		e.base = saved
		if p.Rev == e.rev {
			e.shown = saved.Clone()
			e.dirty = false
		} else {
			e.shown = saved.WithFields(e.shown.Fields())
		}
	}
	e.mu.Unlock()
	e.publish()

	if e.channel != nil {
		if err := e.channel.UpdateNote(ctx, saved); err != nil {
			slogx.Warn(ctx, "announce saved note", slogx.NoteID(p.NoteID), slogx.Err(err))
		}
	}
	e.notifier.Notify(ctx, notify.Success("Note saved"))

	return nil
}

func (e *Editor) editableLocked() bool {
	return e.loaded && !e.closed
}

func (e *Editor) viewLocked() View {
	v := View{Note: e.shown.Clone(), Dirty: e.dirty}

	switch {
	case e.closed:
		v.State = StateClosed
	case e.loadErr != nil:
		v.State = StateError
		v.Err = e.loadErr
	case !e.loaded:
		v.State = StateLoading
	case e.inFlight > 0:
		v.State = StateSaving
	case e.dirty:
		v.State = StateEditing
	default:
		v.State = StateReady
	}

	return v
}

func (e *Editor) publish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prop.Update(e.viewLocked())
}
