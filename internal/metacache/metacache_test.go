package metacache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccboard/internal/sessionparse"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_MissForUnknownPath(t *testing.T) {
	c := openTestCache(t)
	_, ok := c.Get("/nowhere.jsonl")
	assert.False(t, ok)
}

func TestCache_PutThenGetHitsWhileMtimeUnchanged(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	meta := &sessionparse.SessionMetadata{
		Path: path, SessionID: "sess", ProjectPath: "/p1",
		FirstTimestamp: &ts, LastTimestamp: &ts,
		Models: map[string]struct{}{"claude-sonnet-4": {}},
		Tokens: sessionparse.TokenBreakdown{Input: 10, Output: 20},
	}
	c.Put(path, meta)

	got, ok := c.Get(path)
	require.True(t, ok)
	assert.Equal(t, "sess", got.SessionID)
	assert.Equal(t, "/p1", got.ProjectPath)
	assert.Equal(t, []string{"claude-sonnet-4"}, got.ModelList())
	assert.Equal(t, int64(10), got.Tokens.Input)
}

func TestCache_MissesAfterFileModified(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	meta := &sessionparse.SessionMetadata{Path: path, SessionID: "sess"}
	// Force a distinguishable mtime before caching, then rewrite the file.
	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, older, older))
	c.Put(path, meta)
	_, ok := c.Get(path)
	require.True(t, ok, "Get should hit while the mtime is unchanged since Put")

	require.NoError(t, os.WriteFile(path, []byte("{}\n{}\n"), 0o644))
	newer := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, newer, newer))

	_, ok = c.Get(path)
	assert.False(t, ok, "stale mtime after modification must miss")
}

func TestCache_MissAfterFileRemoved(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	c.Put(path, &sessionparse.SessionMetadata{Path: path, SessionID: "sess"})
	require.NoError(t, os.Remove(path))

	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCache_InvalidateRemovesEntry(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	c.Put(path, &sessionparse.SessionMetadata{Path: path, SessionID: "sess"})
	c.Invalidate(path)

	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCache_VacuumRemovesEntriesForMissingFiles(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	c.Put(path, &sessionparse.SessionMetadata{Path: path, SessionID: "sess"})
	require.NoError(t, os.Remove(path))

	require.NoError(t, c.Vacuum())
	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestOpen_RebuildsOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.db")
	require.NoError(t, os.WriteFile(path, []byte("not a sqlite file"), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("/anything")
	assert.False(t, ok)
}
