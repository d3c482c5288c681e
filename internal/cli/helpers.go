package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nishimura-lab/jdarchive/internal/catalog"
	"github.com/nishimura-lab/jdarchive/internal/config"
)

// loadConfig resolves configuration: an explicit --config path must load;
// otherwise the default path is loaded or created, falling back to
// defaults if the home directory is unusable.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		cfg, err := config.Load(globals.Config)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// resolveArchiveDir picks the archive directory: flag override first, then
// the configured directory, joined to the repo root when relative.
func resolveArchiveDir(cfg *config.Config, override, repo string) string {
	if override != "" {
		return override
	}
	if filepath.IsAbs(cfg.Archive.Dir) {
		return cfg.Archive.Dir
	}
	return filepath.Join(repo, cfg.Archive.Dir)
}

// openDefaultCatalog opens the configured catalog database, runs
// migrations, and returns a ready-to-use store with the underlying *sql.DB.
func openDefaultCatalog(cfg *config.Config) (*catalog.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.CatalogDBPath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog database: %w", err)
	}

	runner := catalog.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := catalog.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// expandDay turns a compact YYYYMMDD filename date into YYYY-MM-DD.
func expandDay(compact string) (string, bool) {
	if len(compact) != 8 {
		return "", false
	}
	for _, r := range compact {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return compact[:4] + "-" + compact[4:6] + "-" + compact[6:], true
}
