package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulai/p8lua/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testResult(module string, startedAt time.Time, success bool) *domain.SyncResult {
	return &domain.SyncResult{
		ID:           uuid.NewString(),
		Module:       module,
		Cartridge:    module + ".p8",
		StartedAt:    startedAt,
		EndedAt:      startedAt.Add(50 * time.Millisecond),
		Success:      success,
		BytesWritten: 128,
	}
}

func TestHistoryStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, history.Record(ctx, testResult("game", base, true)))
	require.NoError(t, history.Record(ctx, testResult("game", base.Add(time.Minute), false)))
	require.NoError(t, history.Record(ctx, testResult("other", base.Add(2*time.Minute), true)))

	runs, err := history.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "other", runs[0].Module, "newest first")
	assert.Equal(t, "game", runs[1].Module)
	assert.False(t, runs[1].Success)

	runs, err = history.Recent(ctx, "game", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, "game", run.Module)
		assert.Equal(t, "game.p8", run.Cartridge)
	}
}

func TestHistoryStore_RecentLimit(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, history.Record(ctx, testResult("game", base.Add(time.Duration(i)*time.Minute), true)))
	}

	runs, err := history.Recent(ctx, "game", 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestHistoryStore_RecordFailure(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	result := testResult("game", time.Now(), false)
	result.Error = "expand: conditional block never closed"
	result.BytesWritten = 0
	require.NoError(t, history.Record(ctx, result))

	runs, err := history.Recent(ctx, "game", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "expand: conditional block never closed", runs[0].Error)
	assert.Zero(t, runs[0].BytesWritten)
}

func TestHistoryStore_RecordInvalid(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()

	err := history.Record(context.Background(), &domain.SyncResult{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryStore_Prune(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, history.Record(ctx, testResult("game", base.Add(time.Duration(i)*time.Minute), true)))
	}
	require.NoError(t, history.Record(ctx, testResult("other", base, true)))

	require.NoError(t, history.Prune(ctx, 2))

	runs, err := history.Recent(ctx, "game", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "only the newest runs per cartridge survive")

	runs, err = history.Recent(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "pruning is per cartridge, not global")
}

func TestHistoryStore_PruneDisabled(t *testing.T) {
	store := newTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	require.NoError(t, history.Record(ctx, testResult("game", time.Now(), true)))
	require.NoError(t, history.Prune(ctx, 0))

	runs, err := history.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs the migration check against an up-to-date schema.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, store.Path())
	require.NoError(t, store.Close())
}
