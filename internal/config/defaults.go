package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			Path:      ".",
			GitBinary: "git",
		},
		Archive: ArchiveConfig{
			DataFile: "docs/data/japanese_datasets.json",
			Dir:      "docs/data/archive",
		},
		Backfill: BackfillConfig{
			Strategy: "last",
		},
		Catalog: CatalogConfig{
			Path:       "~/.config/jdarchive",
			SQLiteFile: "catalog.db",
		},
	}
}
