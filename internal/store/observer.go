// Package store holds the client-side collections of one storefront session: cart,
// wishlist, compare set and recently-viewed history. Each store loads its collection
// once at construction, persists after every mutation and notifies subscribers.
package store

import (
	"context"
	"log"
	"sync"
)

// Listener is called after a store's state changed.
type Listener = func()

type observers struct {
	mu   sync.Mutex
	next int
	fns  map[int]Listener
}

// Subscribe registers fn and returns a function that removes it.
func (o *observers) Subscribe(fn Listener) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fns == nil {
		o.fns = make(map[int]Listener)
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// publish calls every listener. Must be called without the store lock held.
func (o *observers) publish() {
	o.mu.Lock()
	fns := make([]Listener, 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persist saves a copy of items. Write failures keep the in-memory state.
func persist[T any](ctx context.Context, name string, save func(context.Context, []T) error, items []T) {
	snapshot := make([]T, len(items))
	copy(snapshot, items)
	if err := save(ctx, snapshot); err != nil {
		log.Printf("[%s] Persist failed, keeping in-memory state: %v", name, err)
	}
}
