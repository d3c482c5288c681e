package archive

import (
	"fmt"
	"io"
)

// maxReportedErrors caps how many per-day errors the summary lists.
const maxReportedErrors = 5

// OutcomeError pairs a day with its failure message for reporting.
type OutcomeError struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// Summary aggregates a run's per-day outcomes for human consumption.
type Summary struct {
	Days           int            `json:"days_processed"`
	ContentCreated int            `json:"content_created"`
	StatsCreated   int            `json:"stats_created"`
	ContentPlanned int            `json:"content_planned"`
	StatsPlanned   int            `json:"stats_planned"`
	ErrorCount     int            `json:"error_count"`
	Errors         []OutcomeError `json:"errors,omitempty"`
}

// Summarize reduces outcomes to counts plus the first few errors. Pure;
// never fails.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Days: len(outcomes)}
	for _, o := range outcomes {
		if o.Content == StatusCreated {
			s.ContentCreated++
		}
		if o.Stats == StatusCreated {
			s.StatsCreated++
		}
		if o.Content == StatusWouldCreate {
			s.ContentPlanned++
		}
		if o.Stats == StatusWouldCreate {
			s.StatsPlanned++
		}
		if o.Err != nil {
			s.ErrorCount++
			if len(s.Errors) < maxReportedErrors {
				s.Errors = append(s.Errors, OutcomeError{
					Date:    o.Date,
					Message: o.Err.Error(),
				})
			}
		}
	}
	return s
}

// Print writes the human-readable run summary to w.
func (s Summary) Print(w io.Writer, dryRun bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backfill Summary")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Days processed: %d\n", s.Days)
	if dryRun {
		fmt.Fprintf(w, "(Dry-run) dataset files to create: %d\n", s.ContentPlanned)
		fmt.Fprintf(w, "(Dry-run) statistics files to create: %d\n", s.StatsPlanned)
	} else {
		fmt.Fprintf(w, "Dataset files created: %d\n", s.ContentCreated)
		fmt.Fprintf(w, "Statistics files created: %d\n", s.StatsCreated)
	}
	if s.ErrorCount > 0 {
		fmt.Fprintf(w, "Errors: %d\n", s.ErrorCount)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  - %s: %s\n", e.Date, e.Message)
		}
	}
	fmt.Fprintln(w, "============================================================")
}
