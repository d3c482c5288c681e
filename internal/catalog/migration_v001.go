package catalog

import "database/sql"

// migrateV001 creates the initial catalog schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			date               TEXT NOT NULL,
			kind               TEXT NOT NULL CHECK (kind IN ('dataset', 'stats')),
			path               TEXT NOT NULL,
			byte_size          INTEGER NOT NULL DEFAULT 0,
			total_datasets     INTEGER NOT NULL DEFAULT 0,
			total_downloads    INTEGER NOT NULL DEFAULT 0,
			total_likes        INTEGER NOT NULL DEFAULT 0,
			multilingual_count INTEGER NOT NULL DEFAULT 0,
			indexed_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (date, kind)
		)`,

		`CREATE TABLE IF NOT EXISTS authors (
			date          TEXT NOT NULL,
			author        TEXT NOT NULL,
			dataset_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (date, author)
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			date          TEXT NOT NULL,
			task          TEXT NOT NULL,
			dataset_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (date, task)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_snapshots_kind  ON snapshots(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_date  ON snapshots(date)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_author  ON authors(author)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_task      ON tasks(task)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
