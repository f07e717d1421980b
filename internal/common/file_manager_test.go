package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteFileAtomic(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := t.TempDir()
	path := filepath.Join(dir, "product_changes.json")

	require.NoError(t, fm.WriteFileAtomic(path, []byte(`[1]`), 0644))
	require.NoError(t, fm.WriteFileAtomic(path, []byte(`[1,2]`), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileManager_ReadFileLimit(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	data, err := fm.ReadFile(path, 0)
	require.NoError(t, err)
	assert.Len(t, data, 10)

	_, err = fm.ReadFile(path, 5)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = fm.ReadFile(filepath.Join(t.TempDir(), "missing"), 0)
	assert.Error(t, err)
}

func TestFileManager_Exists(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := t.TempDir()
	assert.True(t, fm.DirExists(dir))
	assert.False(t, fm.FileExists(dir))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, fm.EnsureDirectory(nested, 0755))
	assert.True(t, fm.DirExists(nested))
}
