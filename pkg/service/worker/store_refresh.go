package worker

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// Refresher is the part of the application context the worker drives
type Refresher interface {
	Ready() bool
	RefreshAll(ctx context.Context) error
}

// RefreshStatus records the outcome of periodic refreshes
type RefreshStatus struct {
	LastAttempt time.Time `json:"last_attempt"`
	LastSuccess time.Time `json:"last_success"`
	Attempts    int       `json:"attempts"`
	Failures    int       `json:"failures"`
}

// StoreRefreshWorker periodically re-synchronises the entity store with the backend
//
// Architecture assumptions:
// - Single process owns the store (no distributed locking)
// - A failed attempt is not retried before the next tick
type StoreRefreshWorker struct {
	app      Refresher
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	mu     sync.RWMutex
	status RefreshStatus
}

// NewStoreRefreshWorker creates a new worker refreshing app every interval
func NewStoreRefreshWorker(app Refresher, interval time.Duration) *StoreRefreshWorker {
	return &StoreRefreshWorker{
		app:      app,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. It does not block.
func (w *StoreRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("Store refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *StoreRefreshWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Store refresh worker stopping")
		close(w.stopCh)
	})
	<-w.doneCh
	logging.Default().Info("Store refresh worker stopped")
}

// Status returns a copy of the refresh statistics
func (w *StoreRefreshWorker) Status() RefreshStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// run is the main worker loop (runs in goroutine)
func (w *StoreRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Initialization owns the first load
			if !w.app.Ready() {
				continue
			}
			if err := w.refresh(ctx); err != nil {
				logging.Default().Error("Store refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Store refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Store refresh worker context cancelled")
			return
		}
	}
}

// refresh performs a single refresh cycle. The store keeps its prior contents on failure.
func (w *StoreRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()

	w.mu.Lock()
	w.status.LastAttempt = startTime
	w.status.Attempts++
	w.mu.Unlock()

	if err := w.app.RefreshAll(ctx); err != nil {
		w.mu.Lock()
		w.status.Failures++
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.status.LastSuccess = startTime
	w.mu.Unlock()

	logging.Default().Debug("Store refresh completed",
		"duration", time.Since(startTime).String())
	return nil
}
