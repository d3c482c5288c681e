package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nishimura-lab/jdarchive/internal/archive"
	"github.com/nishimura-lab/jdarchive/internal/catalog"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.Date == "" {
		return fmt.Errorf("--date is required for show command")
	}
	if _, ok := expandDay(compactShowDate(c.Date)); !ok {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", c.Date)
	}

	var name string
	switch c.Kind {
	case catalog.KindDataset:
		name = archive.ContentFileName(c.Date)
	case catalog.KindStats:
		name = archive.StatsFileName(c.Date)
	default:
		return fmt.Errorf("invalid kind %q (use dataset or stats)", c.Kind)
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	path := filepath.Join(resolveArchiveDir(cfg, "", cfg.Repo.Path), name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no %s snapshot archived for %s", c.Kind, c.Date)
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	// Archived files are already JSON; print them as stored.
	os.Stdout.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

// compactShowDate strips the dashes from a YYYY-MM-DD flag value.
func compactShowDate(date string) string {
	if len(date) == 10 && date[4] == '-' && date[7] == '-' {
		return date[:4] + date[5:7] + date[8:]
	}
	return date
}
