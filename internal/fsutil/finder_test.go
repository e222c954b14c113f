package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.go"))
	writeFile(t, filepath.Join(root, "a.go"))
	writeFile(t, filepath.Join(root, "nested", "c.go"))
	writeFile(t, filepath.Join(root, "recipe.cookery"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.go"), 0o755))

	files, err := FindFilesByExtension(root, ".go")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "b.go"),
		filepath.Join(root, "nested", "c.go"),
	}, files)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".go")
	assert.Error(t, err)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}

func TestIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.cookery")
	writeFile(t, file)

	assert.True(t, IsFile(file))
	assert.False(t, IsFile(root))
	assert.False(t, IsFile(filepath.Join(root, "missing.cookery")))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "/x/counter.go", ReplaceExt("/x/counter.cookery", ".go"))
	assert.Equal(t, "counter.go", ReplaceExt("counter", ".go"))
}

func TestCanonical(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.cookery")
	writeFile(t, file)

	want, err := filepath.EvalSymlinks(file)
	require.NoError(t, err)

	got, err := Canonical(filepath.Join(root, "nested", "..", "a.cookery"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing := filepath.Join(root, "missing.cookery")
	got, err = Canonical(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}
