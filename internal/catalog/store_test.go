package catalog

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a migrated in-memory catalog store.
func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestUpsertAndGetSnapshot(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	snap := &Snapshot{
		Date:              "2024-01-05",
		Kind:              KindStats,
		Path:              "/archive/statistics_20240105.json",
		ByteSize:          220,
		TotalDatasets:     1500,
		TotalDownloads:    987654,
		TotalLikes:        4321,
		MultilingualCount: 312,
	}
	require.NoError(t, store.UpsertSnapshot(ctx, snap))

	got, err := store.GetSnapshot(ctx, "2024-01-05", KindStats)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestUpsertSnapshotRefreshesExistingRow(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	snap := &Snapshot{Date: "2024-01-05", Kind: KindDataset, Path: "/a", ByteSize: 10}
	require.NoError(t, store.UpsertSnapshot(ctx, snap))

	snap.ByteSize = 999
	snap.TotalDatasets = 42
	require.NoError(t, store.UpsertSnapshot(ctx, snap))

	got, err := store.GetSnapshot(ctx, "2024-01-05", KindDataset)
	require.NoError(t, err)
	assert.Equal(t, int64(999), got.ByteSize)
	assert.Equal(t, int64(42), got.TotalDatasets)
}

func TestGetSnapshotMissingReturnsNoRows(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetSnapshot(context.Background(), "2024-01-01", KindStats)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSnapshotKindsAreIndependent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertSnapshot(ctx, &Snapshot{
		Date: "2024-01-05", Kind: KindDataset, Path: "/d",
	}))
	require.NoError(t, store.UpsertSnapshot(ctx, &Snapshot{
		Date: "2024-01-05", Kind: KindStats, Path: "/s",
	}))

	d, err := store.GetSnapshot(ctx, "2024-01-05", KindDataset)
	require.NoError(t, err)
	s, err := store.GetSnapshot(ctx, "2024-01-05", KindStats)
	require.NoError(t, err)
	assert.Equal(t, "/d", d.Path)
	assert.Equal(t, "/s", s.Path)
}

func TestGetStatsEmptyCatalog(t *testing.T) {
	store := setupStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.DatasetSnapshots)
	assert.Equal(t, int64(0), stats.StatsSnapshots)
	assert.Equal(t, "", stats.OldestDate)
	assert.Equal(t, "", stats.NewestDate)
	assert.Nil(t, stats.Latest)
	assert.Empty(t, stats.TopAuthors)
	assert.Empty(t, stats.TopTasks)
}

func TestGetStatsAggregates(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	days := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	for i, day := range days {
		require.NoError(t, store.UpsertSnapshot(ctx, &Snapshot{
			Date: day, Kind: KindDataset, Path: "/d" + day,
		}))
		require.NoError(t, store.UpsertSnapshot(ctx, &Snapshot{
			Date: day, Kind: KindStats, Path: "/s" + day,
			TotalDatasets: int64(100 + i), TotalDownloads: int64(1000 * (i + 1)),
		}))
	}

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.DatasetSnapshots)
	assert.Equal(t, int64(3), stats.StatsSnapshots)
	assert.Equal(t, "2024-01-01", stats.OldestDate)
	assert.Equal(t, "2024-01-03", stats.NewestDate)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, "2024-01-03", stats.Latest.Date)
	assert.Equal(t, int64(102), stats.Latest.TotalDatasets)
	assert.Equal(t, int64(3000), stats.Latest.TotalDownloads)
}

func TestReplaceAuthorsAndTopLists(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-02", []NameCount{
		{Name: "org-a", Count: 12},
		{Name: "org-b", Count: 30},
		{Name: "org-c", Count: 12},
	}))
	require.NoError(t, store.ReplaceTasks(ctx, "2024-01-02", []NameCount{
		{Name: "translation", Count: 40},
		{Name: "text-classification", Count: 55},
	}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)

	// Sorted by count descending, name ascending on ties.
	require.Len(t, stats.TopAuthors, 3)
	assert.Equal(t, NameCount{Name: "org-b", Count: 30}, stats.TopAuthors[0])
	assert.Equal(t, NameCount{Name: "org-a", Count: 12}, stats.TopAuthors[1])
	assert.Equal(t, NameCount{Name: "org-c", Count: 12}, stats.TopAuthors[2])

	require.Len(t, stats.TopTasks, 2)
	assert.Equal(t, "text-classification", stats.TopTasks[0].Name)
}

func TestReplaceAuthorsSwapsPriorTallies(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-02", []NameCount{
		{Name: "org-a", Count: 1},
		{Name: "org-b", Count: 2},
	}))
	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-02", []NameCount{
		{Name: "org-c", Count: 7},
	}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.TopAuthors, 1)
	assert.Equal(t, "org-c", stats.TopAuthors[0].Name)
}

func TestTopListsUseNewestDateOnly(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-01", []NameCount{
		{Name: "old-org", Count: 99},
	}))
	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-02", []NameCount{
		{Name: "new-org", Count: 1},
	}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.TopAuthors, 1)
	assert.Equal(t, "new-org", stats.TopAuthors[0].Name)
}

func TestTopListsCappedAtTen(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var counts []NameCount
	for i := 0; i < 15; i++ {
		counts = append(counts, NameCount{Name: string(rune('a' + i)), Count: int64(i)})
	}
	require.NoError(t, store.ReplaceTasks(ctx, "2024-01-01", counts))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats.TopTasks, 10)
}

func TestPurge(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertSnapshot(ctx, &Snapshot{
		Date: "2024-01-01", Kind: KindStats, Path: "/s",
	}))
	require.NoError(t, store.ReplaceAuthors(ctx, "2024-01-01", []NameCount{
		{Name: "org-a", Count: 1},
	}))

	require.NoError(t, store.Purge(ctx))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.StatsSnapshots)
	assert.Nil(t, stats.Latest)
	assert.Empty(t, stats.TopAuthors)
}
