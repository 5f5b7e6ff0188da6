package domain

import "time"

// ChangeKind classifies a filesystem change notification.
type ChangeKind int

const (
	// ModuleChanged means a module file was written or moved into place.
	ModuleChanged ChangeKind = iota

	// CartridgeAdded means a new cartridge file appeared. It may need a
	// module file extracted for it.
	CartridgeAdded
)

// ChangeEvent is a change notification delivered by the filesystem
// watcher. The core never polls; it only reacts to these.
type ChangeEvent struct {
	// Kind classifies the change.
	Kind ChangeKind

	// Module is the identifier of the changed module. Empty for
	// cartridge events.
	Module string

	// Path is the filesystem path the event was observed on.
	Path string

	// Timestamp is when the change was observed.
	Timestamp time.Time
}
