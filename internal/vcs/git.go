package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable indicates the git binary could not be invoked at all.
// This is fatal for a run, unlike a command that ran and failed.
var ErrUnavailable = errors.New("git is not available")

// CommandError reports a git invocation that ran but exited non-zero.
// Stderr carries git's own diagnostic so the user sees why.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Git implements History by shelling out to the git binary.
type Git struct {
	// Dir is the working directory for git invocations. Empty means the
	// process working directory.
	Dir string

	// Binary is the git executable name or path. Empty means "git".
	Binary string
}

// NewGit returns a Git history rooted at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) binary() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "git"
}

// run executes git with args and returns trimmed stdout.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary(), args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ListRevisions returns every revision that touched path, newest first.
func (g *Git) ListRevisions(ctx context.Context, path string) ([]Revision, error) {
	out, err := g.run(ctx, "log", "--pretty=format:%H %ad", "--date=short", "--", path)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

// parseLog converts "sha date" lines into revisions, keeping git's order.
// Lines without both fields are skipped.
func parseLog(out string) []Revision {
	var revs []Revision
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		revs = append(revs, Revision{ID: fields[0], Date: fields[1]})
	}
	return revs
}

// ReadFile returns the content of path as of revID via git show.
func (g *Git) ReadFile(ctx context.Context, revID, path string) ([]byte, error) {
	out, err := g.run(ctx, "show", revID+":"+path)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// InsideWorkTree reports whether Dir is inside a git working copy.
// A git failure here (e.g. "not a git repository") is reported as false
// rather than an error; only an uninvokable binary is surfaced.
func (g *Git) InsideWorkTree(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return false, err
		}
		return false, nil
	}
	return out == "true", nil
}
