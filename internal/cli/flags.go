package cli

import (
	"github.com/nishimura-lab/jdarchive/internal/catalog"
	"github.com/nishimura-lab/jdarchive/internal/vcs"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// BackfillCommand — reconstruct daily archive snapshots from git history.
type BackfillCommand struct {
	DryRun     bool   `long:"dry-run" description:"Report what would be created without writing"`
	Strategy   string `long:"strategy" description:"Tie-break for days with several commits: first | last" default:""`
	Repo       string `long:"repo" description:"Path to the git working copy (default from config)"`
	DataFile   string `long:"data-file" description:"Tracked data file, relative to the repo root"`
	ArchiveDir string `long:"archive-dir" description:"Archive output directory"`

	globals *GlobalFlags
	version string
	history vcs.History // injectable for testing; nil means git in the repo dir
}

// IndexCommand — rebuild the SQLite catalog from the archive directory.
type IndexCommand struct {
	Rebuild    bool   `long:"rebuild" description:"Purge the catalog before scanning"`
	ArchiveDir string `long:"archive-dir" description:"Archive directory to scan"`

	globals *GlobalFlags
	version string
	store   catalog.Store // injectable for testing; nil means open default catalog
}

// StatusCommand — show catalog aggregates: snapshot counts, date range,
// latest totals, top authors and tasks.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	store   catalog.Store // injectable for testing
}

// ShowCommand — print one archived snapshot file.
type ShowCommand struct {
	Date string `long:"date" description:"Snapshot day, YYYY-MM-DD (required)"`
	Kind string `long:"kind" description:"Snapshot kind: dataset | stats" default:"dataset"`

	globals *GlobalFlags
	version string
}
