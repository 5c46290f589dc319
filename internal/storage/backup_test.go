package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbbd/internal/models"
	"sbbd/internal/structures"
	"sbbd/internal/testutil"
)

func newTestBackupManager(t *testing.T, ttl time.Duration) (*BackupManager, *FileManager, *models.BoardStore) {
	t.Helper()
	conf := storageConfig(t)
	conf.Backup = structures.BackupConfig{
		Enabled:  true,
		Dir:      filepath.Join(conf.Storage.DataDir, "backups"),
		Interval: time.Minute,
		TTL:      ttl,
	}
	store := models.NewBoardStore()
	fm, err := NewFileManager(store, conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	require.NoError(t, err)
	bm := NewBackupManager(fm, conf, &testutil.MockCompressor{}, &testutil.MockLogger{})
	return bm, fm, store
}

func TestBackupManager_Backup_NoSnapshotIsNoop(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, 0)

	require.NoError(t, bm.Backup())

	backups, err := bm.list()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestBackupManager_Backup_WritesCompressedCopy(t *testing.T) {
	bm, fm, store := newTestBackupManager(t, 0)
	store.CreateMessage(&models.CreateMessage{Title: "keep me", Priority: models.PriorityNormal})
	require.NoError(t, fm.Persist())

	require.NoError(t, bm.Backup())

	backups, err := bm.list()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// Identity compressor in tests: backup content equals the snapshot.
	snapshot, err := os.ReadFile(fm.DataFile())
	require.NoError(t, err)
	backup, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, snapshot, backup)
}

func TestBackupManager_Restore_RecoversSnapshot(t *testing.T) {
	bm, fm, store := newTestBackupManager(t, 0)
	msg := store.CreateMessage(&models.CreateMessage{Title: "survivor", Priority: models.PriorityHigh})
	require.NoError(t, fm.Persist())
	require.NoError(t, bm.Backup())

	// Snapshot gets destroyed; restore brings back the last backup.
	require.NoError(t, os.WriteFile(fm.DataFile(), []byte("garbage"), 0644))
	require.NoError(t, bm.Restore())

	reloaded := models.NewBoardStore()
	fm2 := &FileManager{store: reloaded, dataFile: fm.DataFile(), logger: &testutil.MockLogger{}, metrics: &testutil.MockMetrics{}}
	require.NoError(t, fm2.Load())

	got, ok := reloaded.GetMessage(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "survivor", got.Title)
}

func TestBackupManager_Restore_NoBackupsIsNoop(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, 0)
	assert.NoError(t, bm.Restore())
}

func TestBackupManager_Prune_RemovesExpired(t *testing.T) {
	bm, fm, store := newTestBackupManager(t, time.Hour)
	store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityNormal})
	require.NoError(t, fm.Persist())

	// Forge an old backup alongside a fresh one.
	require.NoError(t, os.MkdirAll(bm.dir, 0755))
	oldStamp := time.Now().UTC().Add(-2 * time.Hour).Format("20060102T150405.000")
	oldPath := filepath.Join(bm.dir, "snapshot-"+oldStamp+backupSuffix)
	require.NoError(t, os.WriteFile(oldPath, []byte("{}"), 0644))

	require.NoError(t, bm.Backup())

	backups, err := bm.list()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.NotEqual(t, oldPath, backups[0])
}

func TestBackupManager_Close_ReleasesCompressor(t *testing.T) {
	conf := storageConfig(t)
	fm, err := NewFileManager(models.NewBoardStore(), conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	require.NoError(t, err)

	comp := &testutil.MockCompressor{}
	bm := NewBackupManager(fm, conf, comp, &testutil.MockLogger{})
	bm.Close()
	assert.True(t, comp.Closed)
}
