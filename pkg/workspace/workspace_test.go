package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldeval/refold/pkg/config"
)

func TestLockFileLifecycle(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, CreateLockFile(dir, 4242))

	pid, err := ReadLockFile(dir)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	// A second lock on the same directory is rejected.
	err = CreateLockFile(dir, 4343)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4242")

	require.NoError(t, RemoveLockFile(dir))
	// Removing again is fine.
	require.NoError(t, RemoveLockFile(dir))

	_, err = ReadLockFile(dir)
	assert.Error(t, err)
}

func TestCreateLockFile_ExistingFileAlwaysBlocks(t *testing.T) {
	// Acquisition must key off the file's existence, not its content:
	// a lock left behind with garbage in it still loses the O_EXCL race
	// and must not be silently overwritten.
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))

	err := CreateLockFile(dir, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	// The original file is untouched by the failed acquisition.
	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "not-a-pid", string(content))
}

func TestRunRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Mode = config.ModeMotifScaffolding
	cfg.QueryPDBFolder = "/x/y"
	cfg.ContigCSV = "/a/b.csv"
	cfg.NativePDBFolder = "/c/d"

	rec := NewRunRecord(cfg)
	rec.Command = "python3 scaffold_lab/motif_scaffolding/motif_refolding.py ..."
	rec.Finish(errors.New("exit status 1"))

	path, err := rec.Save(dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	records, err := LoadRecords(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.False(t, got.Success)
	assert.Equal(t, "exit status 1", got.Error)
	assert.Equal(t, config.ModeMotifScaffolding, got.Config.Mode)
}

func TestLoadRecords_MissingDirIsEmpty(t *testing.T) {
	records, err := LoadRecords(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, records)
}
