package notifytest

import (
	"context"
	"sync"

	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
)

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []notify.Notification
}

func (r *Recorder) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

func (r *Recorder) All() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.all...)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.all))
	for _, n := range r.all {
		out = append(out, n.Message)
	}
	return out
}

// Has reports whether a notification with the given level and message was recorded.
func (r *Recorder) Has(n notify.Notification) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, got := range r.all {
		if got == n {
			return true
		}
	}
	return false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}
