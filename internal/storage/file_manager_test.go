package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbbd/internal/models"
	"sbbd/internal/structures"
	"sbbd/internal/testutil"
)

func storageConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		Storage: structures.Storage{DataDir: filepath.Join(t.TempDir(), "data")},
	}
}

func newTestFileManager(t *testing.T) (*FileManager, *models.BoardStore, *testutil.MockLogger, *testutil.MockMetrics) {
	t.Helper()
	store := models.NewBoardStore()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm, err := NewFileManager(store, storageConfig(t), logger, metrics)
	require.NoError(t, err)
	return fm, store, logger, metrics
}

func TestNewFileManager_CreatesDataDir(t *testing.T) {
	conf := storageConfig(t)
	_, err := NewFileManager(models.NewBoardStore(), conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	require.NoError(t, err)

	info, err := os.Stat(conf.Storage.DataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileManager_Persist_CreatesFile(t *testing.T) {
	fm, store, _, metrics := newTestFileManager(t)
	store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityNormal})

	require.NoError(t, fm.Persist())

	_, err := os.Stat(fm.DataFile())
	assert.NoError(t, err)

	// Temp file should not exist
	_, err = os.Stat(fm.DataFile() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 1, metrics.PersistenceObs)
}

func TestFileManager_RoundTrip(t *testing.T) {
	fm, store, _, _ := newTestFileManager(t)

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	msg := store.CreateMessage(&models.CreateMessage{
		Title:     "round trip",
		Content:   "body",
		Author:    "tester",
		Priority:  models.PriorityUrgent,
		ExpiresAt: &expiry,
	})
	ip := "10.0.0.7"
	store.UpsertClient(&models.ClientStatus{
		ID: "c1", Name: "kiosk", IsOnline: true,
		LastSeen: time.Now().UTC().Truncate(time.Second), IPAddress: &ip,
	})
	require.NoError(t, fm.Persist())

	reloaded := models.NewBoardStore()
	fm2 := &FileManager{store: reloaded, dataFile: fm.DataFile(), logger: &testutil.MockLogger{}, metrics: &testutil.MockMetrics{}}
	require.NoError(t, fm2.Load())

	got, ok := reloaded.GetMessage(msg.ID)
	require.True(t, ok)
	assert.Equal(t, msg.Title, got.Title)
	assert.Equal(t, msg.Priority, got.Priority)
	assert.True(t, got.Enabled)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expiry.Equal(*got.ExpiresAt))

	clients := reloaded.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "kiosk", clients[0].Name)
	require.NotNil(t, clients[0].IPAddress)
	assert.Equal(t, "10.0.0.7", *clients[0].IPAddress)
}

func TestFileManager_Load_FileNotExist(t *testing.T) {
	fm, store, _, _ := newTestFileManager(t)

	require.NoError(t, fm.Load())
	assert.Equal(t, 0, store.MessageCount())
}

func TestFileManager_Load_CorruptFileStartsEmpty(t *testing.T) {
	fm, store, logger, _ := newTestFileManager(t)
	require.NoError(t, os.WriteFile(fm.DataFile(), []byte("{not json"), 0644))

	require.NoError(t, fm.Load())
	assert.Equal(t, 0, store.MessageCount())
	require.NotEmpty(t, logger.Logs)
	assert.Equal(t, "warn", logger.Logs[0].Level)
}

func TestFileManager_Load_LegacySchemaDefaultsEnabled(t *testing.T) {
	fm, store, _, _ := newTestFileManager(t)

	id := uuid.New()
	legacy := map[string]any{
		"messages": map[string]any{
			id.String(): map[string]any{
				"id":         id.String(),
				"title":      "pre-toggle message",
				"content":    "",
				"author":     "legacy",
				"created_at": "2024-05-01T00:00:00Z",
				"updated_at": "2024-05-01T00:00:00Z",
				"priority":   "high",
				"expires_at": nil,
			},
		},
		"clients":      map[string]any{},
		"last_updated": "2024-05-01T00:00:00Z",
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fm.DataFile(), data, 0644))

	require.NoError(t, fm.Load())
	msg, ok := store.GetMessage(id)
	require.True(t, ok)
	assert.True(t, msg.Enabled)
}

func TestFileManager_Persist_HumanReadableJSON(t *testing.T) {
	fm, store, _, _ := newTestFileManager(t)
	store.CreateMessage(&models.CreateMessage{Title: "t", Priority: models.PriorityLow})
	require.NoError(t, fm.Persist())

	data, err := os.ReadFile(fm.DataFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"messages\"")
}
