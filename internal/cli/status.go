package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nishimura-lab/jdarchive/internal/catalog"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string          `json:"version"`
	DatasetSnapshots  int64           `json:"dataset_snapshots"`
	StatsSnapshots    int64           `json:"stats_snapshots"`
	OldestDate        string          `json:"oldest_date,omitempty"`
	NewestDate        string          `json:"newest_date,omitempty"`
	TotalDatasets     int64           `json:"total_datasets"`
	TotalDownloads    int64           `json:"total_downloads"`
	TotalLikes        int64           `json:"total_likes"`
	MultilingualCount int64           `json:"multilingual_count"`
	TopAuthors        []nameCountJSON `json:"top_authors"`
	TopTasks          []nameCountJSON `json:"top_tasks"`
}

type nameCountJSON struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store := c.store
	if store == nil {
		cfg, err := loadConfig(c.globals)
		if err != nil {
			return err
		}
		s, db, err := openDefaultCatalog(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		defer s.Close()
		store = s
	}

	return c.executeWithStore(store)
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(store catalog.Store) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats)
	}
	return c.printStatusHuman(stats)
}

func (c *StatusCommand) printStatusHuman(stats *catalog.Stats) error {
	fmt.Println("Archive Status")
	fmt.Println("==============")
	fmt.Printf("Version:            %s\n", c.version)
	fmt.Printf("Dataset snapshots:  %d\n", stats.DatasetSnapshots)
	fmt.Printf("Statistics files:   %d\n", stats.StatsSnapshots)

	if stats.OldestDate != "" {
		fmt.Printf("Oldest:             %s\n", stats.OldestDate)
		fmt.Printf("Newest:             %s\n", stats.NewestDate)
	}

	if stats.Latest != nil {
		fmt.Println()
		fmt.Printf("Latest totals (%s):\n", stats.Latest.Date)
		fmt.Printf("  Datasets:       %d\n", stats.Latest.TotalDatasets)
		fmt.Printf("  Downloads:      %d\n", stats.Latest.TotalDownloads)
		fmt.Printf("  Likes:          %d\n", stats.Latest.TotalLikes)
		fmt.Printf("  Multilingual:   %d\n", stats.Latest.MultilingualCount)
	}

	if len(stats.TopAuthors) > 0 {
		fmt.Println()
		fmt.Println("Top Authors:")
		for _, a := range stats.TopAuthors {
			fmt.Printf("  %-24s %d\n", a.Name, a.Count)
		}
	}

	if len(stats.TopTasks) > 0 {
		fmt.Println()
		fmt.Println("Top Tasks:")
		for _, tk := range stats.TopTasks {
			fmt.Printf("  %-24s %d\n", tk.Name, tk.Count)
		}
	}

	if stats.DatasetSnapshots == 0 && stats.StatsSnapshots == 0 {
		fmt.Println()
		fmt.Println("Catalog is empty. Run 'jdarchive index' after a backfill.")
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *catalog.Stats) error {
	out := statusJSON{
		Version:          c.version,
		DatasetSnapshots: stats.DatasetSnapshots,
		StatsSnapshots:   stats.StatsSnapshots,
		OldestDate:       stats.OldestDate,
		NewestDate:       stats.NewestDate,
		TopAuthors:       make([]nameCountJSON, len(stats.TopAuthors)),
		TopTasks:         make([]nameCountJSON, len(stats.TopTasks)),
	}

	if stats.Latest != nil {
		out.TotalDatasets = stats.Latest.TotalDatasets
		out.TotalDownloads = stats.Latest.TotalDownloads
		out.TotalLikes = stats.Latest.TotalLikes
		out.MultilingualCount = stats.Latest.MultilingualCount
	}

	for i, a := range stats.TopAuthors {
		out.TopAuthors[i] = nameCountJSON{Name: a.Name, Count: a.Count}
	}
	for i, tk := range stats.TopTasks {
		out.TopTasks[i] = nameCountJSON{Name: tk.Name, Count: tk.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
