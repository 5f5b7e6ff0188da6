package driven

import "context"

// CartridgeStore reads and replaces cartridge files on disk.
// The store deals in raw bytes; parsing and merging the section
// structure is the cartridge engine's job, keeping this port a thin
// IO boundary.
type CartridgeStore interface {
	// Read returns the cartridge content.
	// Returns domain.ErrCartridgeNotFound if the file does not exist.
	Read(ctx context.Context, path string) ([]byte, error)

	// WriteAtomic replaces the cartridge content as one atomic unit.
	// An external reader (the console emulator) must never observe a
	// half-written file: implementations write to a temporary location
	// and rename into place.
	WriteAtomic(ctx context.Context, path string, data []byte) error

	// List returns the paths of all cartridges in the configured
	// directories.
	List(ctx context.Context) ([]string, error)

	// PathFor resolves the cartridge path paired with a module.
	// Returns domain.ErrCartridgeNotFound if no cartridge exists for it.
	PathFor(module string) (string, error)

	// ModuleName derives the module identifier paired with a cartridge
	// path. It is the inverse of PathFor for existing cartridges.
	ModuleName(path string) string
}
