package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/core/ports/driving"
	"github.com/sulai/p8lua/internal/logger"
)

// DefaultSuppressWindow is the minimum interval between sync runs for
// the same module. Editors fire several write events per save; only
// the first inside the window triggers a run.
const DefaultSuppressWindow = time.Second

// Runner drives the watch mode: it consumes watcher events and turns
// them into sync runs, strictly one at a time. It is a pure core
// service with no external control API.
type Runner struct {
	watcher   driven.ChangeWatcher
	syncOrch  driving.SyncOrchestrator
	extractor driving.Extractor
	window    time.Duration

	limiters map[string]*rate.Limiter

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRunner creates a runner. The extractor is optional - if nil, new
// cartridges do not get a module file created for them.
func NewRunner(
	watcher driven.ChangeWatcher,
	syncOrch driving.SyncOrchestrator,
	extractor driving.Extractor,
	window time.Duration,
) *Runner {
	if window <= 0 {
		window = DefaultSuppressWindow
	}
	return &Runner{
		watcher:   watcher,
		syncOrch:  syncOrch,
		extractor: extractor,
		window:    window,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Start begins the event loop. This method blocks until Stop is called
// or the context is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	if err := r.watcher.Start(); err != nil {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		return err
	}

	r.wg.Add(1)
	defer r.wg.Done()

	// Seed module files for cartridges that appeared while not
	// watching, then bring every cartridge up to date.
	if r.extractor != nil {
		if _, err := r.extractor.ExtractAll(ctx); err != nil {
			logger.Warn("Initial extract failed: %v", err)
		}
	}
	if err := r.syncOrch.SyncAll(ctx); err != nil {
		logger.Warn("Initial sync failed: %v", err)
	}

	return r.run(ctx)
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	err := r.watcher.Stop()
	r.wg.Wait()
	return err
}

// run is the main event loop. Events are handled strictly one at a
// time: a run triggered while another is in flight waits its turn, so
// two runs never write the same cartridge concurrently.
func (r *Runner) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopCh:
			return nil
		case event, ok := <-r.watcher.Events():
			if !ok {
				return nil
			}
			r.handle(ctx, event)
		case err, ok := <-r.watcher.Errors():
			if !ok {
				continue
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// handle dispatches one watcher event. Failures are reported and the
// loop keeps listening; a broken module must not kill watch mode.
func (r *Runner) handle(ctx context.Context, event domain.ChangeEvent) {
	switch event.Kind {
	case domain.CartridgeAdded:
		if r.extractor == nil {
			return
		}
		if _, err := r.extractor.ExtractAll(ctx); err != nil {
			logger.Error("Extract failed: %v", err)
		}

	case domain.ModuleChanged:
		if !r.limiter(event.Module).Allow() {
			logger.Debug("Suppressing repeat event for %s", event.Module)
			return
		}
		if err := r.syncOrch.Sync(ctx, event.Module); err != nil {
			if errors.Is(err, domain.ErrCartridgeNotFound) {
				// Shared libraries have no cartridge of their own; the
				// modules that include them sync on their own events.
				logger.Debug("No cartridge for %s, skipping", event.Module)
				return
			}
			logger.Error("Sync failed for %s: %v", event.Module, err)
		}
	}
}

// limiter returns the per-module rate limiter, creating it on first
// use. Only the run loop touches the map, so no lock is needed.
func (r *Runner) limiter(module string) *rate.Limiter {
	l, ok := r.limiters[module]
	if !ok {
		l = rate.NewLimiter(rate.Every(r.window), 1)
		r.limiters[module] = l
	}
	return l
}
