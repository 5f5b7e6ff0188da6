package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// Record logs a completed sync run.
func (s *historyStore) Record(ctx context.Context, result *domain.SyncResult) error {
	if result.ID == "" || result.Module == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, module, cartridge, started_at, ended_at, success, error, bytes_written)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.Module, result.Cartridge,
		result.StartedAt.UTC(), result.EndedAt.UTC(),
		result.Success, result.Error, result.BytesWritten)

	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *historyStore) Recent(ctx context.Context, module string, limit int) ([]domain.SyncResult, error) {
	query := `
		SELECT id, module, cartridge, started_at, ended_at, success, error, bytes_written
		FROM sync_runs
	`
	args := []any{}
	if module != "" {
		query += " WHERE module = ?"
		args = append(args, module)
	}
	query += " ORDER BY started_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	return scanSyncRuns(rows)
}

// Prune keeps the most recent 'keep' runs per cartridge and removes
// the rest.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sync_runs WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY cartridge
					ORDER BY started_at DESC, id
				) AS rank
				FROM sync_runs
			) WHERE rank > ?
		)
	`, keep)

	if err != nil {
		return fmt.Errorf("pruning sync runs: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *historyStore) Close() error {
	return s.store.Close()
}

// scanSyncRuns scans multiple sync run rows.
func scanSyncRuns(rows *sql.Rows) ([]domain.SyncResult, error) {
	var results []domain.SyncResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.SyncResult
		if err := rows.Scan(&result.ID, &result.Module, &result.Cartridge,
			&result.StartedAt, &result.EndedAt, &result.Success,
			&result.Error, &result.BytesWritten); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return results, nil
}
