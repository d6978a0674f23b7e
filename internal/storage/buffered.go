package storage

import (
	"context"
	"log"
	"sync"
	"time"
)

// FlushTimeout bounds a single background flush.
const FlushTimeout = 10 * time.Second

// Buffered is a write-behind wrapper. Writes land in memory and are flushed to the
// backend every FlushInterval and on Close. Reads see pending writes first, so callers
// observe their own mutations immediately.
//
// Each key only keeps its latest pending value: rapid mutations of one collection
// collapse into a single backend write.
type Buffered struct {
	backend Storage

	mu       sync.Mutex
	pending  map[string][]byte // nil value = pending delete
	inflight map[string][]byte // batch being written by Flush
	flushMu  sync.Mutex

	flushTicker *time.Ticker
	stopFlush   chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
}

// NewBuffered wraps backend and starts the background flush loop.
func NewBuffered(backend Storage, flushInterval time.Duration) *Buffered {
	b := &Buffered{
		backend:     backend,
		pending:     make(map[string][]byte),
		flushTicker: time.NewTicker(flushInterval),
		stopFlush:   make(chan struct{}),
		done:        make(chan struct{}),
	}

	go b.backgroundFlush()

	log.Printf("[BufferedStorage] Started - flush:%v", flushInterval)
	return b
}

// Get returns the pending or in-flight value if any, otherwise reads the backend.
func (b *Buffered) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	value, ok := b.pending[key]
	if !ok {
		value, ok = b.inflight[key]
	}
	b.mu.Unlock()

	if ok {
		if value == nil {
			return nil, ErrNotFound
		}
		result := make([]byte, len(value))
		copy(result, value)
		return result, nil
	}
	return b.backend.Get(ctx, key)
}

// Set buffers value for the next flush.
func (b *Buffered) Set(ctx context.Context, key string, value []byte) error {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	b.mu.Lock()
	b.pending[key] = valueCopy
	b.mu.Unlock()
	return nil
}

// Delete buffers a delete for the next flush.
func (b *Buffered) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	b.pending[key] = nil
	b.mu.Unlock()
	return nil
}

// Pending returns the number of keys not yet written to the backend.
func (b *Buffered) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.pending)
	for key := range b.inflight {
		if _, queued := b.pending[key]; !queued {
			n++
		}
	}
	return n
}

// Flush writes all pending keys to the backend. Keys that fail stay pending unless a
// newer value replaced them while the flush was running. Until a key is written, Get
// keeps returning its buffered value.
func (b *Buffered) Flush(ctx context.Context) (int, error) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	batch := b.pending
	b.pending = make(map[string][]byte)
	b.inflight = batch
	b.mu.Unlock()

	if len(batch) == 0 {
		return 0, nil
	}

	var firstErr error
	flushed := 0
	for key, value := range batch {
		var err error
		if value == nil {
			err = b.backend.Delete(ctx, key)
		} else {
			err = b.backend.Set(ctx, key, value)
		}
		if err != nil {
			log.Printf("[BufferedStorage] Error flushing %s: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
			b.requeue(key, value)
			continue
		}
		b.landed(key)
		flushed++
	}

	return flushed, firstErr
}

func (b *Buffered) requeue(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, newer := b.pending[key]; !newer {
		b.pending[key] = value
	}
	delete(b.inflight, key)
}

func (b *Buffered) landed(key string) {
	b.mu.Lock()
	delete(b.inflight, key)
	b.mu.Unlock()
}

// Stats reports pending keys plus backend stats when available.
func (b *Buffered) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"pending_keys": b.Pending()}
	if sp, ok := b.backend.(StatsProvider); ok {
		backendStats, err := sp.Stats(ctx)
		if err != nil {
			return nil, err
		}
		stats["backend"] = backendStats
	}
	return stats, nil
}

func (b *Buffered) backgroundFlush() {
	defer close(b.done)
	for {
		select {
		case <-b.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), FlushTimeout)
			if _, err := b.Flush(ctx); err != nil {
				log.Printf("[BufferedStorage] Background flush error: %v", err)
			}
			cancel()
		case <-b.stopFlush:
			return
		}
	}
}

// Close stops the flush loop, performs a final flush and closes the backend.
func (b *Buffered) Close() error {
	var flushErr error
	b.stopOnce.Do(func() {
		b.flushTicker.Stop()
		close(b.stopFlush)
		<-b.done

		ctx, cancel := context.WithTimeout(context.Background(), FlushTimeout)
		defer cancel()
		if n, err := b.Flush(ctx); err != nil {
			flushErr = err
		} else if n > 0 {
			log.Printf("[BufferedStorage] Shutdown flush complete: %d keys", n)
		}
		if err := b.backend.Close(); err != nil && flushErr == nil {
			flushErr = err
		}
	})
	return flushErr
}

var (
	_ Storage       = (*Buffered)(nil)
	_ StatsProvider = (*Buffered)(nil)
)
