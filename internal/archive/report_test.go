package archive

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCounts(t *testing.T) {
	outcomes := []Outcome{
		{Date: "2024-01-01", Content: StatusCreated, Stats: StatusCreated},
		{Date: "2024-01-02", Content: StatusExists, Stats: StatusCreated},
		{Date: "2024-01-03", Content: StatusSkip, Stats: StatusSkip, Note: "present"},
		{Date: "2024-01-04", Err: errors.New("missing 'datasets' key")},
	}

	s := Summarize(outcomes)

	assert.Equal(t, 4, s.Days)
	assert.Equal(t, 1, s.ContentCreated)
	assert.Equal(t, 2, s.StatsCreated)
	assert.Equal(t, 1, s.ErrorCount)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "2024-01-04", s.Errors[0].Date)
	assert.Equal(t, "missing 'datasets' key", s.Errors[0].Message)
}

func TestSummarizeDryRunCounts(t *testing.T) {
	outcomes := []Outcome{
		{Date: "2024-01-01", Content: StatusWouldCreate, Stats: StatusWouldCreate},
		{Date: "2024-01-02", Content: StatusExists, Stats: StatusWouldCreate},
	}

	s := Summarize(outcomes)
	assert.Equal(t, 1, s.ContentPlanned)
	assert.Equal(t, 2, s.StatsPlanned)
	assert.Equal(t, 0, s.ContentCreated)
}

func TestSummarizeCapsReportedErrors(t *testing.T) {
	var outcomes []Outcome
	for i := 0; i < 8; i++ {
		outcomes = append(outcomes, Outcome{
			Date: fmt.Sprintf("2024-01-%02d", i+1),
			Err:  errors.New("boom"),
		})
	}

	s := Summarize(outcomes)
	assert.Equal(t, 8, s.ErrorCount)
	assert.Len(t, s.Errors, 5)
	assert.Equal(t, "2024-01-01", s.Errors[0].Date)
	assert.Equal(t, "2024-01-05", s.Errors[4].Date)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Days)
	assert.Empty(t, s.Errors)
}

func TestPrintNormalRun(t *testing.T) {
	s := Summary{Days: 3, ContentCreated: 2, StatsCreated: 3}

	var buf bytes.Buffer
	s.Print(&buf, false)
	out := buf.String()

	assert.Contains(t, out, "Backfill Summary")
	assert.Contains(t, out, "Days processed: 3")
	assert.Contains(t, out, "Dataset files created: 2")
	assert.Contains(t, out, "Statistics files created: 3")
	assert.NotContains(t, out, "Dry-run")
	assert.NotContains(t, out, "Errors:")
}

func TestPrintDryRun(t *testing.T) {
	s := Summary{Days: 3, ContentPlanned: 3, StatsPlanned: 3}

	var buf bytes.Buffer
	s.Print(&buf, true)
	out := buf.String()

	assert.Contains(t, out, "(Dry-run) dataset files to create: 3")
	assert.Contains(t, out, "(Dry-run) statistics files to create: 3")
	assert.NotContains(t, out, "files created:")
}

func TestPrintErrors(t *testing.T) {
	s := Summary{
		Days:       2,
		ErrorCount: 2,
		Errors: []OutcomeError{
			{Date: "2024-01-01", Message: "fetch failed"},
			{Date: "2024-01-02", Message: "missing 'datasets' key"},
		},
	}

	var buf bytes.Buffer
	s.Print(&buf, false)
	out := buf.String()

	assert.Contains(t, out, "Errors: 2")
	assert.Contains(t, out, "  - 2024-01-01: fetch failed")
	assert.Contains(t, out, "  - 2024-01-02: missing 'datasets' key")
}
