package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Backfill *BackfillCommand
	Index    *IndexCommand
	Status   *StatusCommand
	Show     *ShowCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "jdarchive"
	parser.LongDescription = "Reconstruct daily archive snapshots of the Japanese dataset catalog from git history."

	cmds := &commands{
		Backfill: &BackfillCommand{globals: &globals, version: version},
		Index:    &IndexCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Show:     &ShowCommand{globals: &globals, version: version},
	}

	parser.AddCommand("backfill", "Backfill daily archive snapshots", "Walk the tracked file's git history, pick one revision per day, and write missing content and statistics snapshots.", cmds.Backfill)
	parser.AddCommand("index", "Index the archive directory", "Scan the archive directory and rebuild the SQLite snapshot catalog.", cmds.Index)
	parser.AddCommand("status", "Show catalog statistics", "Show snapshot counts, date range, latest totals, and top authors/tasks.", cmds.Status)
	parser.AddCommand("show", "Print an archived snapshot", "Print the content or statistics snapshot archived for a given day.", cmds.Show)

	return parser, &globals, cmds
}

// Run is the main entry point for the jdarchive CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("jdarchive %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
