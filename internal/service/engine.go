// Package service runs the wishlist alert engines. Each engine periodically reads
// the wishlist, fetches the live catalog for those products and notifies at most once
// per product per process about a qualifying condition.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/repository"
)

// DefaultFetchTimeout bounds one catalog read.
const DefaultFetchTimeout = 10 * time.Second

// ErrStaleResult is returned when a cycle's catalog result was discarded because the
// wishlist changed, or a newer cycle was applied, while it was in flight.
var ErrStaleResult = errors.New("reconciliation result is stale")

// WishlistReader is the read side of the wishlist store.
type WishlistReader interface {
	Items() []model.WishlistItem
}

// Detector turns a wishlist and its live catalog rows into qualifying alerts.
type Detector[A any] interface {
	// Name identifies the detector in logs and stats.
	Name() string
	// Detect returns the qualifying alerts. live contains only active products.
	Detect(wishlist []model.WishlistItem, live []model.CatalogProduct) []A
	// AlertID is the ledger key of an alert.
	AlertID(alert A) string
	// Notify emits the user-facing notification for alert.
	Notify(n notify.Notifier, alert A)
}

// EngineStats is a point-in-time summary for the admin endpoint.
type EngineStats struct {
	Name       string    `json:"name"`
	Cycles     int64     `json:"cycles"`
	Skipped    int64     `json:"skipped"`
	Failures   int64     `json:"failures"`
	Stale      int64     `json:"stale"`
	Notified   int       `json:"notified"`
	Qualifying int       `json:"qualifying"`
	LastApply  time.Time `json:"last_apply,omitempty"`
}

// Engine reconciles the wishlist against the catalog for one Detector.
type Engine[A any] struct {
	wishlist     WishlistReader
	catalog      repository.CatalogRepository
	notifier     notify.Notifier
	detector     Detector[A]
	ledger       *Ledger
	fetchTimeout time.Duration

	mu        sync.Mutex
	issued    uint64
	applied   uint64
	current   []A
	lastApply time.Time
	cycles    int64
	skipped   int64
	failures  int64
	stale     int64
}

// NewEngine creates an engine with its own empty ledger.
func NewEngine[A any](
	wishlist WishlistReader,
	catalog repository.CatalogRepository,
	notifier notify.Notifier,
	detector Detector[A],
	fetchTimeout time.Duration,
) *Engine[A] {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Engine[A]{
		wishlist:     wishlist,
		catalog:      catalog,
		notifier:     notifier,
		detector:     detector,
		ledger:       NewLedger(),
		fetchTimeout: fetchTimeout,
		current:      []A{},
	}
}

// Name returns the detector name.
func (e *Engine[A]) Name() string {
	return e.detector.Name()
}

// Reconcile runs one cycle and returns the qualifying alerts it applied.
//
// An empty wishlist skips the cycle without touching the catalog. A failed fetch
// leaves the ledger and the current list untouched. A stale result returns
// ErrStaleResult and is not applied.
func (e *Engine[A]) Reconcile(ctx context.Context) ([]A, error) {
	items := e.wishlist.Items()

	e.mu.Lock()
	e.cycles++
	if len(items) == 0 {
		e.skipped++
		e.issued++
		e.applied = e.issued
		e.current = []A{}
		e.mu.Unlock()
		return []A{}, nil
	}
	e.issued++
	seq := e.issued
	e.mu.Unlock()

	ids := productIDs(items)
	signature := idSignature(ids)

	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	products, err := e.catalog.FetchByIDs(fetchCtx, ids)
	cancel()
	if err != nil {
		e.mu.Lock()
		e.failures++
		e.mu.Unlock()
		log.Printf("[%s] Catalog fetch failed, retrying next cycle: %v", e.Name(), err)
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	latest := e.wishlist.Items()
	if idSignature(productIDs(latest)) != signature {
		e.markStale()
		return nil, ErrStaleResult
	}

	live := activeOnly(products)
	alerts := e.detector.Detect(latest, live)

	e.mu.Lock()
	if seq < e.applied {
		e.mu.Unlock()
		e.markStale()
		return nil, ErrStaleResult
	}
	e.applied = seq
	e.current = alerts
	e.lastApply = time.Now()

	fresh := make([]A, 0, len(alerts))
	for _, alert := range alerts {
		if e.ledger.MarkNotified(e.detector.AlertID(alert)) {
			fresh = append(fresh, alert)
		}
	}
	e.mu.Unlock()

	for _, alert := range fresh {
		e.detector.Notify(e.notifier, alert)
	}
	if len(fresh) > 0 {
		log.Printf("[%s] %d qualifying, %d notified", e.Name(), len(alerts), len(fresh))
	}

	return alerts, nil
}

// RunCycle runs Reconcile and discards the alert list.
func (e *Engine[A]) RunCycle(ctx context.Context) error {
	_, err := e.Reconcile(ctx)
	return err
}

// Current returns the qualifying alerts of the last applied cycle.
func (e *Engine[A]) Current() []A {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]A, len(e.current))
	copy(out, e.current)
	return out
}

// Ledger exposes the engine's notification ledger.
func (e *Engine[A]) Ledger() *Ledger {
	return e.ledger
}

// Stats returns counters for the admin endpoint.
func (e *Engine[A]) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return EngineStats{
		Name:       e.Name(),
		Cycles:     e.cycles,
		Skipped:    e.skipped,
		Failures:   e.failures,
		Stale:      e.stale,
		Notified:   e.ledger.Len(),
		Qualifying: len(e.current),
		LastApply:  e.lastApply,
	}
}

func (e *Engine[A]) markStale() {
	e.mu.Lock()
	e.stale++
	e.mu.Unlock()
	log.Printf("[%s] Discarding stale catalog result", e.Name())
}

func productIDs(items []model.WishlistItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

// idSignature is an order-independent key for a set of product ids.
func idSignature(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

func activeOnly(products []model.CatalogProduct) []model.CatalogProduct {
	out := make([]model.CatalogProduct, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}
