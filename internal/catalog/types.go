// Package catalog maintains a SQLite index over the archive directory so
// status and show queries don't rescan JSON files. The catalog is derived
// data: the index command rebuilds it from disk at any time, and the
// backfill path never writes to it.
package catalog

// Snapshot is one archived file, keyed by (date, kind).
type Snapshot struct {
	Date     string // YYYY-MM-DD
	Kind     string // "dataset" or "stats"
	Path     string
	ByteSize int64

	// Totals from the statistics document; zero for dataset snapshots
	// unless filled from a parsed dataset file.
	TotalDatasets     int64
	TotalDownloads    int64
	TotalLikes        int64
	MultilingualCount int64
}

// Snapshot kinds.
const (
	KindDataset = "dataset"
	KindStats   = "stats"
)

// NameCount pairs an author or task with its dataset count.
type NameCount struct {
	Name  string
	Count int64
}

// Stats holds aggregate information about the catalog.
type Stats struct {
	DatasetSnapshots int64
	StatsSnapshots   int64
	OldestDate       string
	NewestDate       string
	Latest           *Snapshot // most recent stats snapshot, nil if none
	TopAuthors       []NameCount
	TopTasks         []NameCount
}
