// Package watch implements the change watcher on fsnotify. It watches
// the configured directories recursively, coalesces editor write
// bursts and emits one event per settled change.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/logger"
)

// DefaultDebounce is how long a changed file must stay quiet before
// its event is emitted. Editors fire several writes per save.
const DefaultDebounce = 100 * time.Millisecond

var _ driven.ChangeWatcher = (*Watcher)(nil)

// Watcher watches module and cartridge directories for changes.
type Watcher struct {
	dirs       []string
	cartSuffix string
	nameFor    func(path string) (string, bool)
	debounce   time.Duration

	watcher *fsnotify.Watcher
	events  chan domain.ChangeEvent
	errs    chan error
	done    chan struct{}

	// Debouncing
	pending    map[string]time.Time
	debounceMu sync.Mutex

	mu      sync.Mutex
	started bool
}

// NewWatcher creates a watcher over the given directories. nameFor
// maps a file path to its module name; paths it rejects that carry
// cartridgeSuffix are treated as cartridges, everything else is
// ignored.
func NewWatcher(
	dirs []string,
	cartridgeSuffix string,
	nameFor func(path string) (string, bool),
	debounce time.Duration,
) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:       dirs,
		cartSuffix: cartridgeSuffix,
		nameFor:    nameFor,
		debounce:   debounce,
		watcher:    fsw,
		events:     make(chan domain.ChangeEvent, 64),
		errs:       make(chan error, 16),
		done:       make(chan struct{}),
		pending:    make(map[string]time.Time),
	}, nil
}

// Start begins watching. Directories are watched recursively; new
// subdirectories are picked up as they appear.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.addRecursive(dir); err != nil {
			return err
		}
		logger.Debug("Watching %s for changes", dir)
	}

	w.started = true
	go w.eventLoop()
	go w.debounceLoop()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return nil
	}
	w.started = false
	close(w.done)
	return w.watcher.Close()
}

// Events returns the channel of change events.
func (w *Watcher) Events() <-chan domain.ChangeEvent {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// addRecursive watches a directory tree. Missing directories are
// skipped; they may be created later.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// eventLoop processes file system events.
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	// New subdirectories join the watch so nested modules are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.report(err)
			}
			return
		}
	}

	if _, ok := w.nameFor(event.Name); ok {
		w.queue(event.Name)
		return
	}

	// A brand-new cartridge may need a module file extracted for it.
	if event.Op&fsnotify.Create != 0 && strings.HasSuffix(event.Name, w.cartSuffix) {
		w.emit(domain.ChangeEvent{
			Kind:      domain.CartridgeAdded,
			Path:      event.Name,
			Timestamp: time.Now(),
		})
	}
}

// queue marks a module file as pending until it stays quiet for the
// debounce window.
func (w *Watcher) queue(path string) {
	w.debounceMu.Lock()
	w.pending[path] = time.Now()
	w.debounceMu.Unlock()
}

// debounceLoop flushes pending changes once they settle.
func (w *Watcher) debounceLoop() {
	interval := w.debounce / 2
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending emits events for files quiet for at least the debounce
// window.
func (w *Watcher) flushPending() {
	w.debounceMu.Lock()
	now := time.Now()
	var settled []string
	for path, queuedAt := range w.pending {
		if now.Sub(queuedAt) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.debounceMu.Unlock()

	for _, path := range settled {
		module, ok := w.nameFor(path)
		if !ok {
			continue
		}
		w.emit(domain.ChangeEvent{
			Kind:      domain.ModuleChanged,
			Module:    module,
			Path:      path,
			Timestamp: time.Now(),
		})
	}
}

// emit delivers an event unless the watcher is shutting down.
func (w *Watcher) emit(event domain.ChangeEvent) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// report delivers a watcher error, dropping it if nobody listens.
func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
		logger.Warn("Watcher error dropped: %v", err)
	}
}
