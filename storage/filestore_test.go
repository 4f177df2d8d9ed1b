package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	fsStore, err := NewFileStore(filepath.Join(t.TempDir(), "mrrt_templates"), zaptest.NewLogger(t))
	require.NoError(t, err)
	return fsStore
}

func TestFileStoreWriteReadDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	path, err := s.Write(ctx, []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, s.Home(), filepath.Dir(path))
	assert.Equal(t, TemplateFileExt, filepath.Ext(path))

	content, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))

	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = s.Delete(ctx, path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileStoreWriteUsesFreshNames(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	first, err := s.Write(ctx, []byte("a"))
	require.NoError(t, err)
	second, err := s.Write(ctx, []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	files, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFileStoreRefusesPathsOutsideHome(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	outside := filepath.Join(t.TempDir(), "other.html")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	err := s.Delete(ctx, outside)
	assert.ErrorIs(t, err, ErrOutsideHome)
	assert.FileExists(t, outside)

	assert.False(t, s.Contains(s.Home()))
	assert.False(t, s.Contains(filepath.Join(s.Home(), "..", "escape.html")))
	assert.False(t, s.Contains(""))
	assert.True(t, s.Contains(filepath.Join(s.Home(), "a.html")))
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(s.Home(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Home(), "sub.html"), 0o755))
	path, err := s.Write(ctx, []byte("x"))
	require.NoError(t, err)

	files, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)
}

func TestNewFileStoreRequiresHome(t *testing.T) {
	_, err := NewFileStore("  ", zaptest.NewLogger(t))
	assert.Error(t, err)
}
