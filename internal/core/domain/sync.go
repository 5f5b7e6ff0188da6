package domain

import "time"

// SyncResult records the outcome of one sync run: one change event
// carried through expansion and merge. Both successes and failures are
// recorded so `p8lua history` can show why a cartridge was not updated.
type SyncResult struct {
	// ID is the unique identifier for this run.
	ID string

	// Module is the module that triggered the run.
	Module string

	// Cartridge is the target cartridge path.
	Cartridge string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Success indicates whether expansion and merge both succeeded.
	Success bool

	// Error contains the failure message if Success is false.
	Error string

	// BytesWritten is the size of the merged section body on success.
	BytesWritten int
}
