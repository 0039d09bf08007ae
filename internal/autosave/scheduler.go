// Package autosave coalesces rapid edits into one write after a quiet period.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

// Payload is the edit buffer snapshot to persist. Rev identifies the local edit it was taken at.
type Payload struct {
	NoteID string
	Fields entity.NoteFields
	Rev    uint64
}

type SaveFunc func(ctx context.Context, p Payload)

type Timer interface {
	Stop() bool
}

type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=scheduler_options.gen.go -from-struct=Options
type Options struct {
	save SaveFunc `option:"mandatory" validate:"required"`

	window    time.Duration `default:"1s" validate:"min=0"`
	afterFunc AfterFunc
}

// Scheduler holds at most one pending payload. Every Schedule replaces it and restarts the timer.
type Scheduler struct {
	Options

	mu      sync.Mutex
	timer   Timer
	pending *Payload
	ctx     context.Context
	seq     uint64
	stopped bool
}

func New(opts Options) (*Scheduler, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate autosave options: %v", err)
	}

	if opts.afterFunc == nil {
		opts.afterFunc = realAfterFunc
	}

	return &Scheduler{Options: opts}, nil
}

// Schedule arms the timer for p. The save runs with ctx stripped of its cancellation.
func (s *Scheduler) Schedule(ctx context.Context, p Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.stopTimerLocked()
	s.pending = &p
	s.ctx = context.WithoutCancel(ctx)
	s.seq++

	seq := s.seq
	s.timer = s.afterFunc(s.window, func() { s.fire(seq) })
}

// FlushNow runs the pending save synchronously. It reports false when nothing was pending.
func (s *Scheduler) FlushNow() bool {
	p, ctx, ok := s.take()
	if !ok {
		return false
	}

	s.save(ctx, p)
	return true
}

// Cancel drops the pending payload without saving it.
func (s *Scheduler) Cancel() bool {
	_, _, ok := s.take()
	return ok
}

func (s *Scheduler) Pending() (Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Payload{}, false
	}
	return *s.pending, true
}

// Stop cancels the pending save and ignores any later Schedule.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.stopTimerLocked()
	s.pending = nil
}

func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if seq != s.seq || s.pending == nil {
		s.mu.Unlock()
		return
	}
	p, ctx := *s.pending, s.ctx
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.save(ctx, p)
}

func (s *Scheduler) take() (Payload, context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Payload{}, nil, false
	}

	s.stopTimerLocked()
	p, ctx := *s.pending, s.ctx
	s.pending = nil
	s.seq++

	return p, ctx, true
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
