package driven

import "github.com/sulai/p8lua/internal/core/domain"

// ChangeWatcher delivers module change notifications.
// The core never polls the filesystem; an adapter (fsnotify) watches
// the configured directories and emits one event per settled change.
type ChangeWatcher interface {
	// Start begins watching. Events flow until Stop is called.
	Start() error

	// Stop stops watching and closes the event channels.
	Stop() error

	// Events returns the channel of module change events.
	Events() <-chan domain.ChangeEvent

	// Errors returns the channel of watcher errors. Watcher errors are
	// reported, not fatal; the loop keeps listening.
	Errors() <-chan error
}
