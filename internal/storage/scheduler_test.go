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

func newTestScheduler(t *testing.T, backupEnabled bool) (*Scheduler, *FileManager, *models.BoardStore) {
	t.Helper()
	conf := storageConfig(t)
	conf.Backup = structures.BackupConfig{
		Enabled:  backupEnabled,
		Dir:      filepath.Join(conf.Storage.DataDir, "backups"),
		Interval: time.Minute,
	}
	store := models.NewBoardStore()
	logger := &testutil.MockLogger{}
	fm, err := NewFileManager(store, conf, logger, &testutil.MockMetrics{})
	require.NoError(t, err)
	bm := NewBackupManager(fm, conf, &testutil.MockCompressor{}, logger)
	sched := NewScheduler(conf, logger, fm, bm).(*Scheduler)
	return sched, fm, store
}

func TestScheduler_Restore_LoadsSnapshot(t *testing.T) {
	sched, fm, store := newTestScheduler(t, false)

	msg := store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityNormal})
	require.NoError(t, fm.Persist())

	// A fresh scheduler over a fresh store restores from the same file.
	fresh := models.NewBoardStore()
	fm2 := &FileManager{store: fresh, dataFile: fm.DataFile(), logger: &testutil.MockLogger{}, metrics: &testutil.MockMetrics{}}
	sched2 := &Scheduler{config: sched.config, logger: &testutil.MockLogger{}, fileManager: fm2}
	require.NoError(t, sched2.Restore())

	_, ok := fresh.GetMessage(msg.ID)
	assert.True(t, ok)
}

func TestScheduler_Persist_WritesSnapshot(t *testing.T) {
	sched, fm, store := newTestScheduler(t, false)
	store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityNormal})

	require.NoError(t, sched.Persist())

	_, err := os.Stat(fm.DataFile())
	assert.NoError(t, err)
}

func TestScheduler_Persist_TakesFinalBackup(t *testing.T) {
	sched, _, store := newTestScheduler(t, true)
	store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityNormal})

	require.NoError(t, sched.Persist())

	backups, err := sched.backupManager.list()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestScheduler_Init_DisabledBackupsSkipCron(t *testing.T) {
	sched, _, _ := newTestScheduler(t, false)

	sched.Init()
	assert.Nil(t, sched.cron)
	sched.Stop() // must be safe without a cron
}

func TestScheduler_InitAndStop_WithBackups(t *testing.T) {
	sched, _, _ := newTestScheduler(t, true)

	sched.Init()
	require.NotNil(t, sched.cron)
	sched.Stop()
}
