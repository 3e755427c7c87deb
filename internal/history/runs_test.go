package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestRecordAndRecentRuns(t *testing.T) {
	d := openTestDB(t)

	id1, err := d.RecordRun(Run{File: "a.jsonl", Ops: 3, Warnings: 1, Errors: 0, Duration: 12, CreatedAt: 1000})
	require.NoError(t, err)
	assert.NotEmpty(t, id1, "missing run ID should be generated")

	_, err = d.RecordRun(Run{File: "b.jsonl", Ops: 7, Errors: 2, Duration: 40, CreatedAt: 2000})
	require.NoError(t, err)

	runs, err := d.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.jsonl", runs[0].File, "newest first")
	assert.Equal(t, 7, runs[0].Ops)
	assert.Equal(t, "a.jsonl", runs[1].File)
	assert.Equal(t, 1, runs[1].Warnings)
}

func TestRecentRunsLimit(t *testing.T) {
	d := openTestDB(t)

	for i := 0; i < 5; i++ {
		_, err := d.RecordRun(Run{File: "x.jsonl", CreatedAt: int64(1000 + i)})
		require.NoError(t, err)
	}

	runs, err := d.RecentRuns(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = d.RecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5, "non-positive limit falls back to the default")
}

func TestRecentRunsEmpty(t *testing.T) {
	d := openTestDB(t)

	runs, err := d.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
