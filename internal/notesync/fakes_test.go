package notesync

import (
	"context"
	"sync"
	"time"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

type fakeGateway struct {
	mu       sync.Mutex
	notes    map[string]entity.Note
	saves    []entity.NoteFields
	fetchErr error
	saveErr  error
	gate     chan struct{}
	clock    time.Time
}

func newFakeGateway(notes ...entity.Note) *fakeGateway {
	g := &fakeGateway{
		notes: make(map[string]entity.Note),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, n := range notes {
		g.notes[n.ID] = n
	}
	return g
}

func (g *fakeGateway) FetchNote(_ context.Context, id string) (entity.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fetchErr != nil {
		return entity.Note{}, g.fetchErr
	}
	n, ok := g.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}
	return n, nil
}

func (g *fakeGateway) SaveNote(_ context.Context, id string, fields entity.NoteFields) (entity.Note, error) {
	g.mu.Lock()
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.saves = append(g.saves, fields)
	if g.saveErr != nil {
		return entity.Note{}, g.saveErr
	}

	g.clock = g.clock.Add(time.Second)
	n := g.notes[id].WithFields(fields)
	n.LastUpdated = g.clock
	g.notes[id] = n
	return n, nil
}

func (g *fakeGateway) Saves() []entity.NoteFields {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]entity.NoteFields(nil), g.saves...)
}

func (g *fakeGateway) setSaveErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveErr = err
}

type fakeChannel struct {
	mu      sync.Mutex
	joins   []string
	updates []entity.Note
	subs    map[int]func(entity.Note)
	next    int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{subs: make(map[int]func(entity.Note))}
}

func (c *fakeChannel) JoinNoteRoom(_ context.Context, noteID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joins = append(c.joins, noteID)
	return nil
}

func (c *fakeChannel) UpdateNote(_ context.Context, note entity.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, note)
	return nil
}

func (c *fakeChannel) OnNoteUpdated(fn func(entity.Note)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *fakeChannel) Emit(note entity.Note) {
	c.mu.Lock()
	subs := make([]func(entity.Note), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(note)
	}
}

func (c *fakeChannel) Updates() []entity.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Note(nil), c.updates...)
}

func (c *fakeChannel) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
