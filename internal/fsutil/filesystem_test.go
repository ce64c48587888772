package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_ReadDirSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2m_10Hz.csv", "1m_10Hz.csv", "10m_1Hz.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	entries, err := OSFileSystem{}.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"10m_1Hz.csv", "1m_10Hz.csv", "2m_10Hz.csv"}, names)
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("Timestamp_ms,Measured_Distance_m\n0,1.0\n")
	require.NoError(t, mfs.WriteFile("/logs/1m_10Hz.csv", testData, 0644))

	data, err := mfs.ReadFile("/logs/1m_10Hz.csv")
	require.NoError(t, err)
	assert.Equal(t, testData, data)
}

func TestMemoryFileSystem_CreateAndWrite(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/summary.csv")
	require.NoError(t, err)

	_, err = w.Write([]byte("created content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := mfs.ReadFile("/out/summary.csv")
	require.NoError(t, err)
	assert.Equal(t, "created content", string(data))
	assert.True(t, mfs.Exists("/out"), "parent directory should be implied")
}

func TestMemoryFileSystem_Open(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/opentest.txt", []byte("open me"), 0644))

	f, err := mfs.Open("/opentest.txt")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "open me", string(data))

	_, err = mfs.Open("/nonexistent.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileSystem_StatDirectoryAndFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/data/logs/a.csv", []byte("abc"), 0644))

	info, err := mfs.Stat("/data/logs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = mfs.Stat("/data/logs/a.csv")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, int64(3), info.Size())
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/data/logs/b.csv", nil, 0644))
	require.NoError(t, mfs.WriteFile("/data/logs/a.csv", nil, 0644))
	require.NoError(t, mfs.MkdirAll("/data/logs/nested", 0755))
	require.NoError(t, mfs.WriteFile("/data/other.csv", nil, 0644))

	entries, err := mfs.ReadDir("/data/logs")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.csv", entries[0].Name())
	assert.Equal(t, "b.csv", entries[1].Name())
	assert.Equal(t, "nested", entries[2].Name())
	assert.True(t, entries[2].IsDir())

	_, err = mfs.ReadDir("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileSystem_MkdirAllOverFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/data/plots", []byte("not a dir"), 0644))

	err := mfs.MkdirAll("/data/plots", 0755)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestMemoryFileSystem_Paths(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/b", nil, 0644))
	require.NoError(t, mfs.WriteFile("/a", nil, 0644))

	assert.Equal(t, []string{"/a", "/b"}, mfs.Paths())
}
