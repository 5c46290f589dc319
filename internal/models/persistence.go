package models

import (
	"time"

	"github.com/google/uuid"
)

// MessagePersistence is a JSON superset of Message. Snapshots written by the
// earlier schema carry no enabled flag; those unmarshal with Enabled == nil
// and load as enabled, so old files keep working after an upgrade.
type MessagePersistence struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Priority  Priority   `json:"priority"`
	ExpiresAt *time.Time `json:"expires_at"`
	Enabled   *bool      `json:"enabled"`
}

// DataStorePersistence is the on-disk snapshot envelope.
type DataStorePersistence struct {
	Messages    map[uuid.UUID]*MessagePersistence `json:"messages"`
	Clients     map[string]*ClientStatus          `json:"clients"`
	LastUpdated time.Time                         `json:"last_updated"`
}

func (p *DataStorePersistence) ToDataStore() *DataStore {
	ds := NewDataStore()
	ds.LastUpdated = p.LastUpdated
	for id, pm := range p.Messages {
		if pm == nil {
			continue
		}
		enabled := true
		if pm.Enabled != nil {
			enabled = *pm.Enabled
		}
		ds.Messages[id] = &Message{
			ID:        pm.ID,
			Title:     pm.Title,
			Content:   pm.Content,
			Author:    pm.Author,
			CreatedAt: pm.CreatedAt,
			UpdatedAt: pm.UpdatedAt,
			Priority:  pm.Priority,
			ExpiresAt: pm.ExpiresAt,
			Enabled:   enabled,
		}
	}
	for id, c := range p.Clients {
		if c == nil {
			continue
		}
		cc := *c
		ds.Clients[id] = &cc
	}
	return ds
}
