package autosavetest

import (
	"sort"
	"sync"
	"time"

	"github.com/evgeniy-krivenko/notes-collab/internal/autosave"
)

// Clock is a manual clock whose timers fire only on Advance.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*timer
}

type timer struct {
	c       *Clock
	at      time.Duration
	f       func()
	stopped bool
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *Clock) AfterFunc(d time.Duration, f func()) autosave.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &timer{c: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock and runs every due timer in deadline order on the caller's goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	now := c.now

	var due, rest []*timer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= now:
			t.stopped = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Armed returns the number of timers that have neither fired nor been stopped.
func (c *Clock) Armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
