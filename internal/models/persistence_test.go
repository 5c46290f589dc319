package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataStorePersistence_LegacyMessageWithoutEnabled(t *testing.T) {
	id := uuid.New()
	raw := `{
		"messages": {
			"` + id.String() + `": {
				"id": "` + id.String() + `",
				"title": "old schema",
				"content": "written before the enabled flag existed",
				"author": "legacy",
				"created_at": "2024-01-02T03:04:05Z",
				"updated_at": "2024-01-02T03:04:05Z",
				"priority": "normal",
				"expires_at": null
			}
		},
		"clients": {},
		"last_updated": "2024-01-02T03:04:05Z"
	}`

	var persisted DataStorePersistence
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))

	ds := persisted.ToDataStore()
	msg, ok := ds.Messages[id]
	require.True(t, ok)
	assert.True(t, msg.Enabled, "legacy messages load as enabled")
	assert.Equal(t, PriorityNormal, msg.Priority)
}

func TestDataStorePersistence_ExplicitEnabledFalseSurvives(t *testing.T) {
	id := uuid.New()
	enabled := false
	persisted := DataStorePersistence{
		Messages: map[uuid.UUID]*MessagePersistence{
			id: {ID: id, Title: "hidden", Priority: PriorityLow, Enabled: &enabled},
		},
		LastUpdated: time.Now().UTC(),
	}

	ds := persisted.ToDataStore()
	require.Contains(t, ds.Messages, id)
	assert.False(t, ds.Messages[id].Enabled)
}

func TestDataStorePersistence_NilEntriesSkipped(t *testing.T) {
	persisted := DataStorePersistence{
		Messages: map[uuid.UUID]*MessagePersistence{uuid.New(): nil},
		Clients:  map[string]*ClientStatus{"ghost": nil},
	}

	ds := persisted.ToDataStore()
	assert.Empty(t, ds.Messages)
	assert.Empty(t, ds.Clients)
}
