package driving

import "context"

// SyncOrchestrator carries one module change through expansion and
// merge into the module's cartridge.
type SyncOrchestrator interface {
	// Sync expands the named module and merges the result into its
	// cartridge. Either both effects happen and the cartridge is
	// replaced atomically, or the on-disk cartridge is left untouched.
	Sync(ctx context.Context, module string) error

	// SyncAll syncs every cartridge that has a matching module file.
	SyncAll(ctx context.Context) error

	// Status returns the sync status for a module.
	Status(ctx context.Context, module string) (*SyncStatus, error)
}

// SyncStatus represents the current state of syncing for one module.
type SyncStatus struct {
	// Module identifies the module.
	Module string

	// Running indicates a sync is currently in progress.
	Running bool
}

// Extractor creates module files from cartridges that lack one,
// the reverse direction of sync. Existing module files are never
// overwritten.
type Extractor interface {
	// ExtractAll creates a module file for every cartridge without
	// one and returns the names of the modules created.
	ExtractAll(ctx context.Context) ([]string, error)
}
