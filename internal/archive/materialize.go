package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nishimura-lab/jdarchive/internal/vcs"
)

// Status is the per-artifact outcome of materializing one day.
type Status string

const (
	StatusSkip        Status = "skip"
	StatusWouldCreate Status = "would_create"
	StatusExists      Status = "exists"
	StatusCreated     Status = "created"
)

// Outcome records what happened for one selected day. Appended once to the
// run's results and never mutated afterwards.
type Outcome struct {
	Date     string
	Revision string
	Content  Status
	Stats    Status
	Note     string
	Err      error
}

// Materializer writes per-day content and statistics snapshots into the
// archive directory. It is the only component that touches the filesystem.
type Materializer struct {
	History  vcs.History
	DataFile string
	Dir      string
	DryRun   bool
}

// ContentFileName returns the content snapshot filename for day (YYYY-MM-DD).
func ContentFileName(day string) string {
	return fmt.Sprintf("japanese_datasets_%s.json", compactDay(day))
}

// StatsFileName returns the statistics snapshot filename for day.
func StatsFileName(day string) string {
	return fmt.Sprintf("statistics_%s.json", compactDay(day))
}

// compactDay turns YYYY-MM-DD into YYYYMMDD.
func compactDay(day string) string {
	return strings.ReplaceAll(day, "-", "")
}

// Run materializes every selected day in order, one at a time. Fetch,
// parse, and write failures are isolated to their day: the outcome carries
// the error and the run continues. Only a failure to create the archive
// directory itself aborts.
func (m *Materializer) Run(ctx context.Context, sel *DailySelection) ([]Outcome, error) {
	if !m.DryRun {
		if err := os.MkdirAll(m.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	outcomes := make([]Outcome, 0, sel.Len())
	for _, day := range sel.Days() {
		outcomes = append(outcomes, m.materializeDay(ctx, day, sel.Revision(day)))
	}
	return outcomes, nil
}

// materializeDay produces the outcome for a single day. Re-running against
// an unchanged history and filesystem is idempotent: existing artifacts are
// never rewritten.
func (m *Materializer) materializeDay(ctx context.Context, day, revID string) Outcome {
	out := Outcome{
		Date:     day,
		Revision: revID,
		Content:  StatusSkip,
		Stats:    StatusSkip,
	}

	contentPath := filepath.Join(m.Dir, ContentFileName(day))
	statsPath := filepath.Join(m.Dir, StatsFileName(day))
	needContent := !fileExists(contentPath)
	needStats := !fileExists(statsPath)

	if !needContent && !needStats {
		out.Note = "present"
		return out
	}

	if m.DryRun {
		out.Content = StatusExists
		out.Stats = StatusExists
		if needContent {
			out.Content = StatusWouldCreate
		}
		if needStats {
			out.Stats = StatusWouldCreate
		}
		return out
	}

	raw, err := m.History.ReadFile(ctx, revID, m.DataFile)
	if err != nil {
		out.Err = fmt.Errorf("fetch %s at %s: %w", m.DataFile, revID, err)
		return out
	}

	snap, err := ParseSnapshot(raw)
	if err != nil {
		out.Err = err
		return out
	}

	if needContent {
		if err := writeFileAtomic(contentPath, raw); err != nil {
			out.Err = fmt.Errorf("write content snapshot: %w", err)
			return out
		}
		out.Content = StatusCreated
	} else {
		out.Content = StatusExists
	}

	if needStats {
		doc := NewStatsDocument(day, Reduce(snap.Datasets))
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			out.Err = fmt.Errorf("encode statistics: %w", err)
			return out
		}
		data = append(data, '\n')
		if err := writeFileAtomic(statsPath, data); err != nil {
			out.Err = fmt.Errorf("write statistics snapshot: %w", err)
			return out
		}
		out.Stats = StatusCreated
	} else {
		out.Stats = StatusExists
	}

	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so a failed write never leaves a truncated
// archive file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
