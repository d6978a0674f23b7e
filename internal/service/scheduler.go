package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultAlertInterval is how often alert engines reconcile on their own.
const DefaultAlertInterval = 60 * time.Second

// Reconciler is one alert engine as seen by the scheduler.
type Reconciler interface {
	Name() string
	RunCycle(ctx context.Context) error
}

// WishlistWatcher reports wishlist changes to the scheduler.
type WishlistWatcher interface {
	ProductIDs() []string
	Subscribe(fn func()) (unsubscribe func())
}

// SchedulerConfig holds configuration for the alert scheduler.
type SchedulerConfig struct {
	// Interval between timed cycles. Default: 60 seconds
	Interval time.Duration

	// CycleTimeout bounds one run of all engines. Default: 30 seconds
	CycleTimeout time.Duration
}

// Scheduler runs every engine on a ticker and whenever the wishlist id set changes.
type Scheduler struct {
	engines []Reconciler
	watcher WishlistWatcher
	config  SchedulerConfig

	ticker      *time.Ticker
	stopCh      chan struct{}
	unsubscribe func()
	wg          sync.WaitGroup
	isRunning   bool
	lastIDs     string
	mu          sync.Mutex
}

// NewScheduler creates a scheduler. watcher may be nil, in which case only the ticker
// drives the engines.
func NewScheduler(watcher WishlistWatcher, config SchedulerConfig, engines ...Reconciler) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultAlertInterval
	}
	if config.CycleTimeout <= 0 {
		config.CycleTimeout = 30 * time.Second
	}

	return &Scheduler{
		engines: engines,
		watcher: watcher,
		config:  config,
	}
}

// Start runs an initial cycle and begins the ticker loop. A stopped scheduler can be
// started again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.stopCh = make(chan struct{})
	if s.watcher != nil {
		s.lastIDs = idSignature(s.watcher.ProductIDs())
		s.unsubscribe = s.watcher.Subscribe(s.onWishlistChange)
	}
	s.wg.Add(2)
	s.mu.Unlock()

	log.Printf("[AlertScheduler] Started - Interval: %v, Engines: %d", s.config.Interval, len(s.engines))

	go func() {
		defer s.wg.Done()
		s.runAll()
	}()
	go s.run(s.ticker, s.stopCh)
}

func (s *Scheduler) run(ticker *time.Ticker, stopCh <-chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-ticker.C:
			s.runAll()
		case <-stopCh:
			log.Printf("[AlertScheduler] Stopped")
			return
		}
	}
}

// onWishlistChange triggers a cycle when the wishlist id set changed.
func (s *Scheduler) onWishlistChange() {
	ids := idSignature(s.watcher.ProductIDs())

	s.mu.Lock()
	if !s.isRunning || ids == s.lastIDs {
		s.mu.Unlock()
		return
	}
	s.lastIDs = ids
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.runAll()
	}()
}

func (s *Scheduler) runAll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.CycleTimeout)
	defer cancel()

	if err := s.cycle(ctx); err != nil && !OnlyStale(err) {
		log.Printf("[AlertScheduler] Cycle finished with errors: %v", err)
	}
}

func (s *Scheduler) cycle(ctx context.Context) error {
	var errs []error
	for _, engine := range s.engines {
		if err := engine.RunCycle(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnlyStale reports whether every error joined in err is ErrStaleResult. A cycle where
// one engine went stale and another failed is not stale.
func OnlyStale(err error) bool {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return errors.Is(err, ErrStaleResult)
	}
	for _, e := range joined.Unwrap() {
		if !OnlyStale(e) {
			return false
		}
	}
	return true
}

// RunNow runs every engine once, synchronously.
func (s *Scheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.CycleTimeout)
	defer cancel()

	return s.cycle(ctx)
}

// Stop stops the ticker, unsubscribes from the wishlist and waits for in-flight cycles.
// Stopping a scheduler that is not running does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	close(s.stopCh)
	s.isRunning = false
	s.mu.Unlock()

	s.wg.Wait()
}
