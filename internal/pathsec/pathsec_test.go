package pathsec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccboard/internal/corpuserr"
)

func TestSanitize_AllowsPathsWithinRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "projects", "p1"), 0o755))
	f := filepath.Join(root, "projects", "p1", "s.jsonl")
	require.NoError(t, os.WriteFile(f, []byte("{}\n"), 0o644))

	got, err := Sanitize(root, filepath.Join("projects", "p1", "s.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestSanitize_RejectsTraversalOutsideRoot(t *testing.T) {
	root := t.TempDir()

	_, err := Sanitize(root, filepath.Join("..", "etc", "passwd"))
	require.Error(t, err)
	kind, ok := corpuserr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, corpuserr.SecurityViolation, kind)
}

func TestSanitize_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.jsonl")
	require.NoError(t, os.WriteFile(target, []byte("{}\n"), 0o644))

	link := filepath.Join(root, "escape.jsonl")
	require.NoError(t, os.Symlink(target, link))

	_, err := Sanitize(root, "escape.jsonl")
	require.Error(t, err)
	kind, ok := corpuserr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, corpuserr.SecurityViolation, kind)
}

func TestSanitize_TolerantOfNonexistentPath(t *testing.T) {
	root := t.TempDir()

	got, err := Sanitize(root, filepath.Join("projects", "new", "s.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "projects", "new", "s.jsonl"), got)
}
