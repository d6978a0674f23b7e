package service

import "sync"

// Ledger is the set of product ids already notified in this process. It only grows:
// entries are never removed and nothing is persisted, so a restart starts empty.
type Ledger struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{ids: make(map[string]struct{})}
}

// MarkNotified records id and reports whether it was new.
func (l *Ledger) MarkNotified(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seen := l.ids[id]; seen {
		return false
	}
	l.ids[id] = struct{}{}
	return true
}

// Contains reports whether id has been notified.
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of notified ids.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}
