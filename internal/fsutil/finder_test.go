package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	// Arrange
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.hcl"))
	touch(t, filepath.Join(root, "a.YAML"))
	touch(t, filepath.Join(root, "nested", "c.yml"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".git", "d.hcl"))

	// Act
	files, err := FindFilesByExtension(root, ".hcl", ".yaml", ".yml")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.YAML"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.yml"),
	}, files)
}

func TestFindFilesByExtension_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	touch(t, path)

	files, err := FindFilesByExtension(path, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindFilesByExtension_Errors(t *testing.T) {
	_, err := FindFilesByExtension(t.TempDir())
	assert.Error(t, err)

	_, err = FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("g.HCL", ".hcl"))
	assert.False(t, HasExtension("hcl", ".hcl"))
	assert.False(t, HasExtension("g.hcl.bak", ".hcl"))
}
