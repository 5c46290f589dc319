package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BoardStore owns the mutable snapshot. All access goes through its
// reader/writer lock; every returned message or client is a copy, so callers
// never hold references into the guarded maps.
//
// Mutations are linearized by the lock. Durability is the caller's job: the
// service persists the snapshot after each committed mutation.
type BoardStore struct {
	mu   sync.RWMutex
	data *DataStore
}

func NewBoardStore() *BoardStore {
	return &BoardStore{data: NewDataStore()}
}

func (s *BoardStore) CreateMessage(payload *CreateMessage) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	msg := &Message{
		ID:        uuid.New(),
		Title:     payload.Title,
		Content:   payload.Content,
		Author:    payload.Author,
		CreatedAt: now,
		UpdatedAt: now,
		Priority:  payload.Priority,
		ExpiresAt: payload.ExpiresAt,
		Enabled:   true,
	}
	s.data.Messages[msg.ID] = msg
	s.data.LastUpdated = now

	copy := *msg
	return &copy
}

func (s *BoardStore) GetMessage(id uuid.UUID) (*Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.data.Messages[id]
	if !ok {
		return nil, false
	}
	copy := *msg
	return &copy, true
}

// Messages returns a copy of every stored message, unfiltered and unordered.
func (s *BoardStore) Messages() []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Message, 0, len(s.data.Messages))
	for _, msg := range s.data.Messages {
		copy := *msg
		result = append(result, &copy)
	}
	return result
}

// UpdateMessage applies only the fields present in the partial payload.
// UpdatedAt and LastUpdated are always refreshed on a hit.
func (s *BoardStore) UpdateMessage(id uuid.UUID, update *UpdateMessage) (*Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.data.Messages[id]
	if !ok {
		return nil, false
	}

	if update.Title != nil {
		msg.Title = *update.Title
	}
	if update.Content != nil {
		msg.Content = *update.Content
	}
	if update.Author != nil {
		msg.Author = *update.Author
	}
	if update.Priority != nil {
		msg.Priority = *update.Priority
	}
	if update.ExpiresAt != nil {
		msg.ExpiresAt = update.ExpiresAt
	}
	if update.Enabled != nil {
		msg.Enabled = *update.Enabled
	}

	now := time.Now().UTC()
	msg.UpdatedAt = now
	s.data.LastUpdated = now

	copy := *msg
	return &copy, true
}

// ApplyMessage runs fn on a copy of the message and stores the result, all
// under the write lock. Read-modify-write callers (the enabled toggle) use
// this instead of a separate get and update, so no concurrent mutation can
// slip in between. fn must not modify ID or CreatedAt.
func (s *BoardStore) ApplyMessage(id uuid.UUID, fn func(*Message)) (*Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.data.Messages[id]
	if !ok {
		return nil, false
	}

	updated := *msg
	fn(&updated)
	now := time.Now().UTC()
	updated.UpdatedAt = now
	s.data.Messages[id] = &updated
	s.data.LastUpdated = now

	copy := updated
	return &copy, true
}

// DeleteMessage reports whether a removal happened. LastUpdated is touched
// only on an actual removal, so deleting an unknown id stays write-free.
func (s *BoardStore) DeleteMessage(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Messages[id]; !ok {
		return false
	}
	delete(s.data.Messages, id)
	s.data.LastUpdated = time.Now().UTC()
	return true
}

// UpsertClient inserts or fully replaces the record keyed by client.ID.
func (s *BoardStore) UpsertClient(client *ClientStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *client
	s.data.Clients[client.ID] = &copy
	s.data.LastUpdated = time.Now().UTC()
}

// MarkClientOffline clears the online flag and stamps LastSeen. Unknown ids
// are a no-op, not an error; the return value tells the caller whether a
// persist is warranted.
func (s *BoardStore) MarkClientOffline(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.data.Clients[id]
	if !ok {
		return false
	}
	now := time.Now().UTC()
	client.IsOnline = false
	client.LastSeen = now
	s.data.LastUpdated = now
	return true
}

func (s *BoardStore) Clients() []*ClientStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ClientStatus, 0, len(s.data.Clients))
	for _, client := range s.data.Clients {
		copy := *client
		result = append(result, &copy)
	}
	return result
}

func (s *BoardStore) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Messages)
}

func (s *BoardStore) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Clients)
}

func (s *BoardStore) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LastUpdated
}

// Snapshot returns a deep copy of the whole aggregate for persistence.
func (s *BoardStore) Snapshot() *DataStore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := NewDataStore()
	snap.LastUpdated = s.data.LastUpdated
	for id, msg := range s.data.Messages {
		copy := *msg
		snap.Messages[id] = &copy
	}
	for id, client := range s.data.Clients {
		copy := *client
		snap.Clients[id] = &copy
	}
	return snap
}

// Replace installs a loaded snapshot. Called once at restore time, before
// the store is shared.
func (s *BoardStore) Replace(data *DataStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Messages == nil {
		data.Messages = make(map[uuid.UUID]*Message)
	}
	if data.Clients == nil {
		data.Clients = make(map[string]*ClientStatus)
	}
	s.data = data
}
