package notify

import (
	"sync"
	"time"

	"storefront-state-api/pkg/clock"
	"storefront-state-api/pkg/uid"
)

// DefaultFeedSize is the number of notifications a Feed retains.
const DefaultFeedSize = 50

// Feed keeps the most recent notifications in memory so an out-of-process
// presentation layer can poll them. Oldest entries are dropped first.
type Feed struct {
	mu      sync.RWMutex
	items   []Notification
	size    int
	clock   clock.Clock
	actions map[string]func()
}

// NewFeed creates a feed retaining up to size notifications.
func NewFeed(size int, clk clock.Clock) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Feed{
		items:   make([]Notification, 0, size),
		size:    size,
		clock:   clk,
		actions: make(map[string]func()),
	}
}

// Notify appends a notification.
func (f *Feed) Notify(message string, duration time.Duration, action *Action) {
	n := Notification{
		ID:         uid.NewOrdered(),
		Message:    message,
		Duration:   duration,
		DurationMs: duration.Milliseconds(),
		Action:     action,
		CreatedAt:  f.clock.Now(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if action != nil && action.OnActivate != nil {
		f.actions[n.ID] = action.OnActivate
	}
	if over := len(f.items) - f.size; over > 0 {
		for _, dropped := range f.items[:over] {
			delete(f.actions, dropped.ID)
		}
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// List returns retained notifications, newest first.
func (f *Feed) List() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notification, len(f.items))
	for i, n := range f.items {
		out[len(f.items)-1-i] = n
	}
	return out
}

// Since returns notifications created strictly after t, newest first.
func (f *Feed) Since(t time.Time) []Notification {
	all := f.List()
	out := make([]Notification, 0, len(all))
	for _, n := range all {
		if n.CreatedAt.After(t) {
			out = append(out, n)
		}
	}
	return out
}

// Activate runs the OnActivate callback of notification id at most once. It reports
// false when the notification has no callback, was already activated or is no longer
// retained.
func (f *Feed) Activate(id string) bool {
	f.mu.Lock()
	fn, ok := f.actions[id]
	delete(f.actions, id)
	f.mu.Unlock()

	if !ok {
		return false
	}
	fn()
	return true
}

// Len returns the number of retained notifications.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}
