// Package vcs exposes the two read-only capabilities jdarchive needs from
// the version-control system: listing the revisions that touched a file and
// reading the file's content as of a revision. The History interface keeps
// git behind a seam so tests can substitute an in-memory history.
package vcs

import "context"

// Revision is one historical version of the tracked file. Date is the
// commit's calendar day in YYYY-MM-DD form; ID is opaque (a git sha here).
type Revision struct {
	ID   string
	Date string
}

// History is the version-control query surface.
type History interface {
	// ListRevisions returns every revision that touched path, newest
	// first as reported by the tool. An empty slice is a valid result.
	ListRevisions(ctx context.Context, path string) ([]Revision, error)

	// ReadFile returns the raw content of path as it existed at revID.
	ReadFile(ctx context.Context, revID, path string) ([]byte, error)

	// InsideWorkTree reports whether the configured directory is inside
	// a version-controlled working copy.
	InsideWorkTree(ctx context.Context) (bool, error)
}
