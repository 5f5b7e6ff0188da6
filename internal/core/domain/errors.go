package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Expansion Errors.

	// ErrModuleNotFound indicates an include target could not be located
	// in any of the configured module directories.
	ErrModuleNotFound = errors.New("module not found")

	// ErrCyclicInclude indicates a module includes itself, directly or
	// through a chain of other modules.
	ErrCyclicInclude = errors.New("cyclic include")

	// ErrUnbalancedConditional indicates an #end with no open #if, or an
	// #if still open at the end of the module that opened it.
	ErrUnbalancedConditional = errors.New("unbalanced conditional")

	// Merge Errors.

	// ErrSectionNotFound indicates the target section tag is absent from
	// the cartridge. The merger never creates sections implicitly.
	ErrSectionNotFound = errors.New("section not found")

	// ErrCartridgeNotFound indicates no cartridge exists for a module.
	ErrCartridgeNotFound = errors.New("cartridge not found")

	// Sync Errors.

	// ErrSyncInProgress indicates a sync is already running for the module.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrHistoryUnavailable indicates the history store is not configured.
	// Sync runs proceed without being recorded.
	ErrHistoryUnavailable = errors.New("history store unavailable")
)
