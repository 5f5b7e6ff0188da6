package driven

import (
	"context"

	"github.com/sulai/p8lua/internal/core/domain"
)

// HistoryStore persists sync run outcomes.
type HistoryStore interface {
	// Record logs a completed sync run, successful or not.
	Record(ctx context.Context, result *domain.SyncResult) error

	// Recent returns the most recent runs, newest first. When module is
	// non-empty, only runs for that module are returned.
	Recent(ctx context.Context, module string, limit int) ([]domain.SyncResult, error)

	// Prune removes old runs beyond the retention limit, keeping the
	// most recent 'keep' runs per cartridge.
	Prune(ctx context.Context, keep int) error

	// Close releases the underlying storage.
	Close() error
}
