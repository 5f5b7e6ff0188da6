package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driving"
)

// fakeWatcher feeds events from test code.
type fakeWatcher struct {
	events chan domain.ChangeEvent
	errs   chan error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan domain.ChangeEvent, 16),
		errs:   make(chan error, 16),
	}
}

func (w *fakeWatcher) Start() error                      { return nil }
func (w *fakeWatcher) Stop() error                       { return nil }
func (w *fakeWatcher) Events() <-chan domain.ChangeEvent { return w.events }
func (w *fakeWatcher) Errors() <-chan error              { return w.errs }

// fakeSyncOrch records sync calls and signals each one.
type fakeSyncOrch struct {
	mu       sync.Mutex
	synced   []string
	syncAlls int
	errs     map[string]error
	done     chan string
}

func newFakeSyncOrch() *fakeSyncOrch {
	return &fakeSyncOrch{
		errs: make(map[string]error),
		done: make(chan string, 16),
	}
}

func (o *fakeSyncOrch) Sync(_ context.Context, module string) error {
	o.mu.Lock()
	o.synced = append(o.synced, module)
	err := o.errs[module]
	o.mu.Unlock()
	o.done <- module
	return err
}

func (o *fakeSyncOrch) SyncAll(context.Context) error {
	o.mu.Lock()
	o.syncAlls++
	o.mu.Unlock()
	return nil
}

func (o *fakeSyncOrch) Status(_ context.Context, module string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{Module: module}, nil
}

func (o *fakeSyncOrch) calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.synced...)
}

// fakeExtractor counts extract passes.
type fakeExtractor struct {
	mu   sync.Mutex
	runs int
	done chan struct{}
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{done: make(chan struct{}, 16)}
}

func (e *fakeExtractor) ExtractAll(context.Context) ([]string, error) {
	e.mu.Lock()
	e.runs++
	e.mu.Unlock()
	e.done <- struct{}{}
	return nil, nil
}

func (e *fakeExtractor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

func startRunner(t *testing.T, r *Runner) {
	t.Helper()
	go func() {
		_ = r.Start(context.Background())
	}()
	t.Cleanup(func() { _ = r.Stop() })
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for sync of %s", want)
	}
}

func TestRunner_InitialExtractAndSync(t *testing.T) {
	watcher := newFakeWatcher()
	orch := newFakeSyncOrch()
	extractor := newFakeExtractor()

	runner := NewRunner(watcher, orch, extractor, time.Hour)
	startRunner(t, runner)

	select {
	case <-extractor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial extract")
	}
	require.NoError(t, runner.Stop())
	assert.Equal(t, 1, extractor.count())

	orch.mu.Lock()
	defer orch.mu.Unlock()
	assert.Equal(t, 1, orch.syncAlls, "startup runs one full sync pass")
}

func TestRunner_ModuleEventTriggersSync(t *testing.T) {
	watcher := newFakeWatcher()
	orch := newFakeSyncOrch()

	runner := NewRunner(watcher, orch, nil, time.Hour)
	startRunner(t, runner)

	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "game"}
	waitFor(t, orch.done, "game")
}

func TestRunner_RepeatEventsSuppressed(t *testing.T) {
	watcher := newFakeWatcher()
	orch := newFakeSyncOrch()

	runner := NewRunner(watcher, orch, nil, time.Hour)
	startRunner(t, runner)

	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "game"}
	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "game"}
	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "other"}

	waitFor(t, orch.done, "game")
	waitFor(t, orch.done, "other")

	assert.Equal(t, []string{"game", "other"}, orch.calls(),
		"a second event inside the suppression window must not trigger a run")
}

func TestRunner_SyncFailureKeepsLoopAlive(t *testing.T) {
	watcher := newFakeWatcher()
	orch := newFakeSyncOrch()
	orch.errs["lib"] = domain.ErrCartridgeNotFound

	runner := NewRunner(watcher, orch, nil, time.Hour)
	startRunner(t, runner)

	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "lib"}
	waitFor(t, orch.done, "lib")

	watcher.events <- domain.ChangeEvent{Kind: domain.ModuleChanged, Module: "game"}
	waitFor(t, orch.done, "game")
}

func TestRunner_CartridgeAddedTriggersExtract(t *testing.T) {
	watcher := newFakeWatcher()
	orch := newFakeSyncOrch()
	extractor := newFakeExtractor()

	runner := NewRunner(watcher, orch, extractor, time.Hour)
	startRunner(t, runner)

	// Drain the startup pass first.
	select {
	case <-extractor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial extract")
	}

	watcher.events <- domain.ChangeEvent{Kind: domain.CartridgeAdded, Path: "new.p8"}
	select {
	case <-extractor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for extract after cartridge event")
	}
	assert.Equal(t, 2, extractor.count())
}

func TestRunner_StopIsIdempotent(t *testing.T) {
	watcher := newFakeWatcher()
	runner := NewRunner(watcher, newFakeSyncOrch(), nil, time.Hour)
	startRunner(t, runner)

	require.NoError(t, runner.Stop())
	require.NoError(t, runner.Stop())
}
