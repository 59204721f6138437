package queryfiles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dracory/weequery/internal/queryfiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.sql"), "SELECT 1")
	writeFile(t, filepath.Join(dir, "reports", "a.TXT"), "SELECT 2")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	writeFile(t, filepath.Join(dir, ".git", "x.sql"), "ignored")

	files, err := queryfiles.List(dir)
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"b.sql", "reports/a.TXT"}, paths)
}

func TestList_NoDirectory(t *testing.T) {
	_, err := queryfiles.List("")
	assert.ErrorIs(t, err, queryfiles.ErrNoDirectory)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "reports", "q.sql"), "SELECT {0}")

	content, err := queryfiles.Read(dir, "reports/q.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT {0}", content)
}

func TestRead_Rejects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bin.sql"), "\xff\xfe\x00")

	_, err := queryfiles.Read(dir, "../etc/passwd")
	assert.ErrorIs(t, err, queryfiles.ErrOutsideDirectory)

	_, err = queryfiles.Read(dir, "/etc/passwd")
	assert.ErrorIs(t, err, queryfiles.ErrOutsideDirectory)

	_, err = queryfiles.Read(dir, "")
	assert.ErrorIs(t, err, queryfiles.ErrOutsideDirectory)

	_, err = queryfiles.Read(dir, "bin.sql")
	assert.ErrorIs(t, err, queryfiles.ErrNotUTF8)

	_, err = queryfiles.Read(dir, "missing.sql")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
