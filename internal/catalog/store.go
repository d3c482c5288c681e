package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// topListLimit caps the author/task top-lists in GetStats.
const topListLimit = 10

// Store defines the catalog data operations.
type Store interface {
	UpsertSnapshot(ctx context.Context, snap *Snapshot) error
	GetSnapshot(ctx context.Context, date, kind string) (*Snapshot, error)
	ReplaceAuthors(ctx context.Context, date string, counts []NameCount) error
	ReplaceTasks(ctx context.Context, date string, counts []NameCount) error
	GetStats(ctx context.Context) (*Stats, error)
	Purge(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertSnapshot *sql.Stmt
	getSnapshot    *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertSnapshot, err = s.db.Prepare(`
		INSERT INTO snapshots (date, kind, path, byte_size,
			total_datasets, total_downloads, total_likes, multilingual_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, kind) DO UPDATE SET
			path               = excluded.path,
			byte_size          = excluded.byte_size,
			total_datasets     = excluded.total_datasets,
			total_downloads    = excluded.total_downloads,
			total_likes        = excluded.total_likes,
			multilingual_count = excluded.multilingual_count,
			indexed_at         = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.getSnapshot, err = s.db.Prepare(`
		SELECT date, kind, path, byte_size,
			total_datasets, total_downloads, total_likes, multilingual_count
		FROM snapshots WHERE date = ? AND kind = ?
	`)
	return err
}

// UpsertSnapshot inserts or refreshes one archived file's index row.
func (s *SQLiteStore) UpsertSnapshot(ctx context.Context, snap *Snapshot) error {
	_, err := s.upsertSnapshot.ExecContext(ctx,
		snap.Date, snap.Kind, snap.Path, snap.ByteSize,
		snap.TotalDatasets, snap.TotalDownloads, snap.TotalLikes, snap.MultilingualCount,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s/%s: %w", snap.Date, snap.Kind, err)
	}
	return nil
}

// GetSnapshot returns the indexed row for (date, kind), or sql.ErrNoRows.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, date, kind string) (*Snapshot, error) {
	var snap Snapshot
	err := s.getSnapshot.QueryRowContext(ctx, date, kind).Scan(
		&snap.Date, &snap.Kind, &snap.Path, &snap.ByteSize,
		&snap.TotalDatasets, &snap.TotalDownloads, &snap.TotalLikes, &snap.MultilingualCount,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ReplaceAuthors swaps the author tallies for one day in a transaction.
func (s *SQLiteStore) ReplaceAuthors(ctx context.Context, date string, counts []NameCount) error {
	return s.replaceNameCounts(ctx, "authors", "author", date, counts)
}

// ReplaceTasks swaps the task tallies for one day in a transaction.
func (s *SQLiteStore) ReplaceTasks(ctx context.Context, date string, counts []NameCount) error {
	return s.replaceNameCounts(ctx, "tasks", "task", date, counts)
}

func (s *SQLiteStore) replaceNameCounts(ctx context.Context, table, column, date string, counts []NameCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE date = ?", table), date,
	); err != nil {
		return fmt.Errorf("clear %s for %s: %w", table, date, err)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (date, %s, dataset_count) VALUES (?, ?, ?)", table, column,
	)
	for _, c := range counts {
		if _, err := tx.ExecContext(ctx, insertSQL, date, c.Name, c.Count); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// GetStats aggregates the catalog: per-kind counts, date range, latest
// totals, and top authors/tasks for the newest indexed day.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN kind = 'dataset' THEN 1 END),
			COUNT(CASE WHEN kind = 'stats' THEN 1 END),
			COALESCE(MIN(date), ''),
			COALESCE(MAX(date), '')
		FROM snapshots
	`).Scan(&stats.DatasetSnapshots, &stats.StatsSnapshots, &stats.OldestDate, &stats.NewestDate)
	if err != nil {
		return nil, fmt.Errorf("aggregate snapshots: %w", err)
	}

	// Latest statistics totals, if any stats snapshot is indexed.
	var latest Snapshot
	err = s.db.QueryRowContext(ctx, `
		SELECT date, kind, path, byte_size,
			total_datasets, total_downloads, total_likes, multilingual_count
		FROM snapshots WHERE kind = 'stats'
		ORDER BY date DESC LIMIT 1
	`).Scan(
		&latest.Date, &latest.Kind, &latest.Path, &latest.ByteSize,
		&latest.TotalDatasets, &latest.TotalDownloads, &latest.TotalLikes, &latest.MultilingualCount,
	)
	switch err {
	case nil:
		stats.Latest = &latest
	case sql.ErrNoRows:
		// no stats snapshots indexed yet
	default:
		return nil, fmt.Errorf("latest stats snapshot: %w", err)
	}

	stats.TopAuthors, err = s.topNameCounts(ctx, "authors", "author")
	if err != nil {
		return nil, err
	}
	stats.TopTasks, err = s.topNameCounts(ctx, "tasks", "task")
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// topNameCounts returns the top tallies for the newest date in table.
func (s *SQLiteStore) topNameCounts(ctx context.Context, table, column string) ([]NameCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, dataset_count FROM %s
		WHERE date = (SELECT MAX(date) FROM %s)
		ORDER BY dataset_count DESC, %s ASC
		LIMIT %d
	`, column, table, table, column, topListLimit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var counts []NameCount
	for rows.Next() {
		var c NameCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Purge removes every indexed row so the catalog can be rebuilt from disk.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	for _, table := range []string{"snapshots", "authors", "tasks"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return nil
}

// Close releases prepared statements. The caller owns the *sql.DB.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.upsertSnapshot, s.getSnapshot} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
