package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sulai/p8lua/internal/cartridge"
	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/core/ports/driving"
	"github.com/sulai/p8lua/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator carries one module change through expansion,
// post-processing and merge into the module's cartridge.
type SyncOrchestrator struct {
	modules  driven.ModuleStore
	carts    driven.CartridgeStore
	expander driven.Expander
	pipeline driven.PostProcessorPipeline
	history  driven.HistoryStore

	section     string
	historyKeep int

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// The history store is optional - if nil, run recording is disabled.
// historyKeep bounds how many runs are retained per cartridge.
func NewSyncOrchestrator(
	modules driven.ModuleStore,
	carts driven.CartridgeStore,
	expander driven.Expander,
	pipeline driven.PostProcessorPipeline,
	history driven.HistoryStore,
	section string,
	historyKeep int,
) *SyncOrchestrator {
	if section == "" {
		section = cartridge.LuaTag
	}
	return &SyncOrchestrator{
		modules:     modules,
		carts:       carts,
		expander:    expander,
		pipeline:    pipeline,
		history:     history,
		section:     section,
		historyKeep: historyKeep,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// Sync expands the named module and merges the result into its
// cartridge. The on-disk cartridge is replaced atomically or not at
// all; every section other than the target survives byte for byte.
func (o *SyncOrchestrator) Sync(ctx context.Context, module string) error {
	// 1. Resolve the paired cartridge. A module without one is not an
	// error worth recording: shared libraries are included by other
	// modules and have no cartridge of their own.
	path, err := o.carts.PathFor(module)
	if err != nil {
		return fmt.Errorf("resolve cartridge for %s: %w", module, err)
	}

	if !o.markRunning(module) {
		return fmt.Errorf("sync %s: %w", module, domain.ErrSyncInProgress)
	}
	defer o.clearStatus(module)

	result := &domain.SyncResult{
		ID:        uuid.NewString(),
		Module:    module,
		Cartridge: path,
		StartedAt: time.Now(),
	}
	defer o.record(ctx, result)

	logger.Info("Syncing %s -> %s", module, path)

	written, err := o.merge(ctx, module, path)
	result.EndedAt = time.Now()
	if err != nil {
		result.Error = err.Error()
		return fmt.Errorf("sync %s: %w", module, err)
	}

	result.Success = true
	result.BytesWritten = written
	return nil
}

// merge performs the expand, post-process and splice steps.
func (o *SyncOrchestrator) merge(ctx context.Context, module, path string) (int, error) {
	// 2. Expand the module: includes resolved, conditionals evaluated.
	expanded, err := o.expander.Expand(ctx, module)
	if err != nil {
		return 0, fmt.Errorf("expand: %w", err)
	}

	// 3. Run the post-processor pipeline.
	text, err := o.pipeline.Process(ctx, expanded.Text, expanded.Symbols)
	if err != nil {
		return 0, fmt.Errorf("post-process: %w", err)
	}

	// 4. Load and parse the target cartridge.
	data, err := o.carts.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read cartridge: %w", err)
	}
	doc := cartridge.Parse(data)

	// 5. Skip the write when the section already holds the expanded
	// text. Expansion is deterministic, so an unchanged input always
	// lands here and the cartridge's mtime is left alone.
	current, err := doc.Section(o.section)
	if err != nil {
		return 0, fmt.Errorf("section __%s__: %w", o.section, err)
	}
	if current.Body() == text {
		logger.Debug("Section __%s__ unchanged, skipping write", o.section)
		return len(text), nil
	}

	// 6. Splice and write atomically.
	if err := doc.Replace(o.section, text); err != nil {
		return 0, fmt.Errorf("replace section: %w", err)
	}
	if err := o.carts.WriteAtomic(ctx, path, doc.Serialize()); err != nil {
		return 0, fmt.Errorf("write cartridge: %w", err)
	}

	logger.Info("Wrote %s (%d bytes in __%s__)", path, len(text), o.section)
	return len(text), nil
}

// SyncAll syncs every cartridge that has a matching module file.
func (o *SyncOrchestrator) SyncAll(ctx context.Context) error {
	paths, err := o.carts.List(ctx)
	if err != nil {
		return fmt.Errorf("list cartridges: %w", err)
	}

	var errs []error
	for _, path := range paths {
		module := o.carts.ModuleName(path)
		if _, err := o.modules.Get(ctx, module); err != nil {
			if errors.Is(err, domain.ErrModuleNotFound) {
				logger.Debug("No module for %s, skipping", path)
				continue
			}
			errs = append(errs, fmt.Errorf("get module %s: %w", module, err))
			continue
		}
		if err := o.Sync(ctx, module); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Status returns the sync status for a module.
func (o *SyncOrchestrator) Status(_ context.Context, module string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[module]; ok {
		// Return a copy to avoid race conditions
		return &driving.SyncStatus{
			Module:  status.Module,
			Running: status.Running,
		}, nil
	}

	// Not running - return idle status
	return &driving.SyncStatus{
		Module:  module,
		Running: false,
	}, nil
}

// record persists a run outcome. History failures are reported, never
// fatal: the cartridge write already happened or already failed.
func (o *SyncOrchestrator) record(ctx context.Context, result *domain.SyncResult) {
	if o.history == nil {
		return
	}
	if err := o.history.Record(ctx, result); err != nil {
		logger.Warn("Failed to record sync run: %v", err)
		return
	}
	if o.historyKeep > 0 {
		if err := o.history.Prune(ctx, o.historyKeep); err != nil {
			logger.Warn("Failed to prune sync history: %v", err)
		}
	}
}

// markRunning sets the running status for a module. It returns false
// if a sync for the same module is already in flight.
func (o *SyncOrchestrator) markRunning(module string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.activeSyncs[module]; ok {
		return false
	}
	o.activeSyncs[module] = &driving.SyncStatus{Module: module, Running: true}
	return true
}

// clearStatus removes the running status for a module.
func (o *SyncOrchestrator) clearStatus(module string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, module)
}
