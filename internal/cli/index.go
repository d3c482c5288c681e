package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nishimura-lab/jdarchive/internal/archive"
	"github.com/nishimura-lab/jdarchive/internal/catalog"
)

// Execute implements the go-flags Commander interface for IndexCommand.
func (c *IndexCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	dir := resolveArchiveDir(cfg, c.ArchiveDir, cfg.Repo.Path)

	store := c.store
	if store == nil {
		s, db, err := openDefaultCatalog(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		defer s.Close()
		store = s
	}

	return c.executeWithStore(store, dir)
}

// executeWithStore runs the scan against a provided store (used by tests).
func (c *IndexCommand) executeWithStore(store catalog.Store, dir string) error {
	ctx := context.Background()

	if c.Rebuild {
		if err := store.Purge(ctx); err != nil {
			return fmt.Errorf("rebuild catalog: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read archive directory: %w", err)
	}

	var datasetFiles, statsFiles, skipped int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, kind, ok := snapshotNameInfo(entry.Name())
		if !ok {
			skipped++
			continue
		}

		path := filepath.Join(dir, entry.Name())
		snap, err := indexFile(path, date, kind)
		if err != nil {
			// A malformed archived file should not stop the scan.
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", entry.Name(), err)
			skipped++
			continue
		}

		if err := store.UpsertSnapshot(ctx, snap); err != nil {
			return err
		}

		if kind == catalog.KindDataset {
			datasetFiles++
			if err := c.indexTallies(ctx, store, path, date); err != nil {
				return err
			}
		} else {
			statsFiles++
		}
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]int{
			"dataset_files": datasetFiles,
			"stats_files":   statsFiles,
			"skipped":       skipped,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Indexed %d files (%d dataset, %d stats).\n",
		datasetFiles+statsFiles, datasetFiles, statsFiles)
	if skipped > 0 {
		fmt.Printf("Skipped %d entries.\n", skipped)
	}
	return nil
}

// indexFile builds a catalog row from one archived file.
func indexFile(path, date, kind string) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	snap := &catalog.Snapshot{
		Date:     date,
		Kind:     kind,
		Path:     path,
		ByteSize: int64(len(data)),
	}

	switch kind {
	case catalog.KindStats:
		var doc archive.StatsDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse statistics document: %w", err)
		}
		snap.TotalDatasets = int64(doc.Statistics.TotalDatasets)
		snap.TotalDownloads = doc.Statistics.TotalDownloads
		snap.TotalLikes = doc.Statistics.TotalLikes
		snap.MultilingualCount = int64(doc.Statistics.MultilingualCount)
	case catalog.KindDataset:
		parsed, err := archive.ParseSnapshot(data)
		if err != nil {
			return nil, err
		}
		stats := archive.Reduce(parsed.Datasets)
		snap.TotalDatasets = int64(stats.TotalDatasets)
		snap.TotalDownloads = stats.TotalDownloads
		snap.TotalLikes = stats.TotalLikes
		snap.MultilingualCount = int64(stats.MultilingualCount)
	}

	return snap, nil
}

// indexTallies derives the author and task tallies for one dataset
// snapshot and replaces the day's rows.
func (c *IndexCommand) indexTallies(ctx context.Context, store catalog.Store, path, date string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	parsed, err := archive.ParseSnapshot(data)
	if err != nil {
		return err
	}

	authors := map[string]int64{}
	tasks := map[string]int64{}
	for _, d := range parsed.Datasets {
		author := d.Author
		if author == "" {
			author = "unknown"
		}
		authors[author]++
		for _, task := range d.Tasks {
			tasks[task]++
		}
	}

	if err := store.ReplaceAuthors(ctx, date, sortedCounts(authors)); err != nil {
		return err
	}
	return store.ReplaceTasks(ctx, date, sortedCounts(tasks))
}

// sortedCounts converts a tally map to a deterministic slice, highest
// count first, name ascending on ties.
func sortedCounts(tally map[string]int64) []catalog.NameCount {
	counts := make([]catalog.NameCount, 0, len(tally))
	for name, n := range tally {
		counts = append(counts, catalog.NameCount{Name: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// snapshotNameInfo recognizes archive filenames and extracts the day and
// kind. Anything else is skipped.
func snapshotNameInfo(name string) (date, kind string, ok bool) {
	var compact string
	switch {
	case strings.HasPrefix(name, "japanese_datasets_") && strings.HasSuffix(name, ".json"):
		compact = strings.TrimSuffix(strings.TrimPrefix(name, "japanese_datasets_"), ".json")
		kind = catalog.KindDataset
	case strings.HasPrefix(name, "statistics_") && strings.HasSuffix(name, ".json"):
		compact = strings.TrimSuffix(strings.TrimPrefix(name, "statistics_"), ".json")
		kind = catalog.KindStats
	default:
		return "", "", false
	}

	date, ok = expandDay(compact)
	if !ok {
		return "", "", false
	}
	return date, kind, true
}
