package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nishimura-lab/jdarchive/internal/archive"
	"github.com/nishimura-lab/jdarchive/internal/vcs"
)

// Execute implements the go-flags Commander interface for BackfillCommand.
// Per-day fetch/parse failures are reported in the summary and never cause
// a non-nil return; only an invalid environment, an invalid strategy, or an
// uninvokable/failed history query does.
func (c *BackfillCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	repo := c.Repo
	if repo == "" {
		repo = cfg.Repo.Path
	}
	dataFile := c.DataFile
	if dataFile == "" {
		dataFile = cfg.Archive.DataFile
	}

	strategyFlag := c.Strategy
	if strategyFlag == "" {
		strategyFlag = cfg.Backfill.Strategy
	}
	strategy, err := archive.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}

	history := c.history
	if history == nil {
		history = &vcs.Git{Dir: repo, Binary: cfg.Repo.GitBinary}
	}

	ctx := context.Background()

	inside, err := history.InsideWorkTree(ctx)
	if err != nil {
		return err
	}
	if !inside {
		return fmt.Errorf("%s is not inside a git working copy", repo)
	}

	revs, err := history.ListRevisions(ctx, dataFile)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		// Informational, not an error: a data file with no history means
		// there is nothing to archive.
		fmt.Printf("No commits found for %s.\n", dataFile)
		return nil
	}

	sel, err := archive.SelectDaily(revs, strategy)
	if err != nil {
		return err
	}

	if !c.globals.JSON {
		fmt.Printf("Found %d distinct days in history.\n", sel.Len())
	}

	m := &archive.Materializer{
		History:  history,
		DataFile: dataFile,
		Dir:      resolveArchiveDir(cfg, c.ArchiveDir, repo),
		DryRun:   c.DryRun,
	}

	outcomes, err := m.Run(ctx, sel)
	if err != nil {
		return err
	}

	if c.globals.Verbose && !c.globals.JSON {
		printOutcomes(outcomes)
	}

	summary := archive.Summarize(outcomes)

	if c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	summary.Print(os.Stdout, c.DryRun)
	if c.DryRun {
		fmt.Println("Dry-run complete.")
	}
	return nil
}

// printOutcomes lists every day's result, one line each.
func printOutcomes(outcomes []archive.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("  %s %s  error: %s\n", o.Date, shortRev(o.Revision), o.Err)
			continue
		}
		line := fmt.Sprintf("  %s %s  dataset: %s  stats: %s", o.Date, shortRev(o.Revision), o.Content, o.Stats)
		if o.Note != "" {
			line += "  (" + o.Note + ")"
		}
		fmt.Println(line)
	}
}

// shortRev abbreviates a revision id for display.
func shortRev(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
