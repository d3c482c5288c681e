package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/nishimura-lab/jdarchive/internal/catalog"
	"github.com/nishimura-lab/jdarchive/internal/vcs"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// fakeHistory is an in-memory History for command tests.
type fakeHistory struct {
	revs     []vcs.Revision
	content  map[string][]byte
	workTree bool
}

func (f *fakeHistory) ListRevisions(ctx context.Context, path string) ([]vcs.Revision, error) {
	return f.revs, nil
}

func (f *fakeHistory) ReadFile(ctx context.Context, revID, path string) ([]byte, error) {
	raw, ok := f.content[revID]
	if !ok {
		return nil, &vcs.CommandError{
			Args:   []string{"show", revID + ":" + path},
			Stderr: "fatal: invalid object name",
			Err:    fmt.Errorf("exit status 128"),
		}
	}
	return raw, nil
}

func (f *fakeHistory) InsideWorkTree(ctx context.Context) (bool, error) {
	return f.workTree, nil
}

// testSnapshot builds minimal valid snapshot bytes with n records.
func testSnapshot(t *testing.T, n int) []byte {
	t.Helper()
	records := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, map[string]interface{}{
			"id":        fmt.Sprintf("org/dataset-%d", i),
			"author":    "org",
			"downloads": 10,
			"likes":     1,
			"languages": []string{"ja", "en"},
			"tasks":     []string{"translation"},
		})
	}
	data, err := json.Marshal(map[string]interface{}{
		"last_updated": "2024-01-01T00:00:00",
		"total_count":  n,
		"datasets":     records,
	})
	require.NoError(t, err)
	return data
}

// newTestHistory returns a three-day fake history in git-log order.
func newTestHistory(t *testing.T) *fakeHistory {
	t.Helper()
	return &fakeHistory{
		workTree: true,
		revs: []vcs.Revision{
			{ID: "ccc", Date: "2024-01-03"},
			{ID: "bbb", Date: "2024-01-02"},
			{ID: "aaa", Date: "2024-01-01"},
		},
		content: map[string][]byte{
			"aaa": testSnapshot(t, 1),
			"bbb": testSnapshot(t, 2),
			"ccc": testSnapshot(t, 3),
		},
	}
}

// writeTestConfig writes a minimal config file and returns its path.
func writeTestConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

// setupCatalogStore creates a migrated in-memory catalog store.
func setupCatalogStore(t *testing.T) *catalog.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := catalog.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := catalog.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}
