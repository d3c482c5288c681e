// Package archive implements the snapshot reconstruction core: picking one
// revision per calendar day, deriving statistics, and materializing per-day
// archive files idempotently.
package archive

import (
	"errors"
	"fmt"

	"github.com/nishimura-lab/jdarchive/internal/vcs"
)

// Strategy is the tie-break policy for days with multiple revisions.
type Strategy string

const (
	// StrategyFirst keeps the earliest revision of each day.
	StrategyFirst Strategy = "first"
	// StrategyLast keeps the latest revision of each day.
	StrategyLast Strategy = "last"
)

// ErrInvalidStrategy indicates a strategy outside {first, last}.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ParseStrategy validates a strategy string from a flag or config value.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFirst, StrategyLast:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q (use first or last)", ErrInvalidStrategy, s)
	}
}

// DailySelection maps each calendar day with history to exactly one
// revision id, preserving insertion order (oldest day first).
type DailySelection struct {
	days  []string
	byDay map[string]string
}

// Days returns the selected days, oldest first.
func (s *DailySelection) Days() []string { return s.days }

// Revision returns the chosen revision id for day, or "" if absent.
func (s *DailySelection) Revision(day string) string { return s.byDay[day] }

// Len returns the number of distinct days selected.
func (s *DailySelection) Len() int { return len(s.days) }

// SelectDaily reduces a newest-first revision list to one winner per day.
// Revisions are processed oldest first: "first" keeps the earliest seen
// revision of a day, "last" lets each later revision overwrite the winner.
// The input's reported order is trusted as chronological; no re-sort.
func SelectDaily(revs []vcs.Revision, strategy Strategy) (*DailySelection, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}

	sel := &DailySelection{byDay: make(map[string]string)}
	for i := len(revs) - 1; i >= 0; i-- {
		r := revs[i]
		if _, seen := sel.byDay[r.Date]; !seen {
			sel.days = append(sel.days, r.Date)
			sel.byDay[r.Date] = r.ID
			continue
		}
		if strategy == StrategyLast {
			sel.byDay[r.Date] = r.ID
		}
	}

	return sel, nil
}
