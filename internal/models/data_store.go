package models

import (
	"time"

	"github.com/google/uuid"
)

// DataStore is the single persisted aggregate: every committed mutation
// rewrites it to disk as one JSON document.
type DataStore struct {
	Messages    map[uuid.UUID]*Message   `json:"messages"`
	Clients     map[string]*ClientStatus `json:"clients"`
	LastUpdated time.Time                `json:"last_updated"`
}

func NewDataStore() *DataStore {
	return &DataStore{
		Messages: make(map[uuid.UUID]*Message),
		Clients:  make(map[string]*ClientStatus),
	}
}

// DataStats is derived on demand, never stored.
type DataStats struct {
	TotalMessages  int       `json:"total_messages"`
	ActiveMessages int       `json:"active_messages"`
	TotalClients   int       `json:"total_clients"`
	OnlineClients  int       `json:"online_clients"`
	LastUpdated    time.Time `json:"last_updated"`
}
