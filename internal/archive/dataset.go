package archive

import (
	"encoding/json"
	"fmt"
)

// Dataset is one catalog record in the tracked file. Every field besides
// the id is optional; absent counts default to zero.
type Dataset struct {
	ID             string   `json:"id"`
	Author         string   `json:"author"`
	CreatedAt      string   `json:"created_at,omitempty"`
	LastModified   string   `json:"last_modified,omitempty"`
	Downloads      int64    `json:"downloads"`
	Likes          int64    `json:"likes"`
	Tags           []string `json:"tags,omitempty"`
	Description    string   `json:"description,omitempty"`
	URL            string   `json:"url,omitempty"`
	Languages      []string `json:"languages"`
	Tasks          []string `json:"tasks,omitempty"`
	SizeCategories []string `json:"size_categories,omitempty"`
}

// Snapshot is the parsed structure of the tracked file at one revision.
type Snapshot struct {
	LastUpdated string    `json:"last_updated"`
	TotalCount  int       `json:"total_count"`
	Datasets    []Dataset `json:"datasets"`
}

// ParseError reports content that is not a structurally valid snapshot.
// It is distinct from vcs errors so callers can tell a failed fetch from a
// fetched-but-malformed revision.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseSnapshot decodes raw snapshot bytes. The top-level "datasets" key is
// required; its absence is a *ParseError, not a panic. An empty datasets
// array is valid.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	// Decode into a probe with a pointer collection so a present-but-empty
	// array is distinguishable from a missing key.
	var probe struct {
		LastUpdated string     `json:"last_updated"`
		TotalCount  int        `json:"total_count"`
		Datasets    *[]Dataset `json:"datasets"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &ParseError{Reason: "invalid snapshot JSON", Err: err}
	}
	if probe.Datasets == nil {
		return nil, &ParseError{Reason: "missing 'datasets' key"}
	}

	return &Snapshot{
		LastUpdated: probe.LastUpdated,
		TotalCount:  probe.TotalCount,
		Datasets:    *probe.Datasets,
	}, nil
}
