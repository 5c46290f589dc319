package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"sbbd/internal/models"
	"sbbd/internal/storage/interfaces"
	"sbbd/internal/structures"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type BoardServiceInterface interface {
	CreateMessage(payload *models.CreateMessage) (*models.Message, error)
	GetMessage(id uuid.UUID) (*models.Message, bool)
	Messages() []*models.Message
	ActiveMessages() []*models.Message
	ActiveMessagesPaginated(page, pageSize int) *models.PaginatedMessages
	UpdateMessage(id uuid.UUID, update *models.UpdateMessage) (*models.Message, bool, error)
	ToggleMessage(id uuid.UUID) (*models.Message, bool, error)
	DeleteMessage(id uuid.UUID) (bool, error)
	Clients() []*models.ClientStatus
	OnlineClients() []*models.ClientStatus
	UpsertClient(client *models.ClientStatus) error
	MarkClientOffline(id string) (bool, error)
	Stats() *models.DataStats
	MessageCount() int
	ClientCount() int
}

// BoardService is the read-side query engine and the write-side commit path.
// Every mutation goes store first, then persister: the snapshot file is
// rewritten before the call returns, so a mutation the caller saw succeed is
// already on disk.
type BoardService struct {
	store     *models.BoardStore
	persister interfaces.PersisterInterface
	window    time.Duration
}

func NewBoardService(store *models.BoardStore, persister interfaces.PersisterInterface, conf *structures.Config) BoardServiceInterface {
	window := conf.Presence.Window
	if window <= 0 {
		window = structures.DefaultPresenceWindow
	}
	return &BoardService{
		store:     store,
		persister: persister,
		window:    window,
	}
}

func (bs *BoardService) CreateMessage(payload *models.CreateMessage) (*models.Message, error) {
	msg := bs.store.CreateMessage(payload)
	if err := bs.persister.Persist(); err != nil {
		return nil, fmt.Errorf("persist after create: %w", err)
	}
	return msg, nil
}

func (bs *BoardService) GetMessage(id uuid.UUID) (*models.Message, bool) {
	return bs.store.GetMessage(id)
}

// Messages returns every stored message, expired ones included, ordered by
// priority and recency for stable output.
func (bs *BoardService) Messages() []*models.Message {
	messages := bs.store.Messages()
	sortMessages(messages)
	return messages
}

func (bs *BoardService) ActiveMessages() []*models.Message {
	now := time.Now().UTC()
	all := bs.store.Messages()
	active := all[:0]
	for _, msg := range all {
		if msg.Active(now) {
			active = append(active, msg)
		}
	}
	sortMessages(active)
	return active
}

// ActiveMessagesPaginated slices the ordered active list. An out-of-range
// page yields an empty data slice, not an error.
func (bs *BoardService) ActiveMessagesPaginated(page, pageSize int) *models.PaginatedMessages {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	active := bs.ActiveMessages()
	total := len(active)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	data := []*models.Message{}
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		data = active[start:end]
	}

	return &models.PaginatedMessages{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func (bs *BoardService) UpdateMessage(id uuid.UUID, update *models.UpdateMessage) (*models.Message, bool, error) {
	msg, ok := bs.store.UpdateMessage(id, update)
	if !ok {
		return nil, false, nil
	}
	if err := bs.persister.Persist(); err != nil {
		return nil, true, fmt.Errorf("persist after update: %w", err)
	}
	return msg, true, nil
}

// ToggleMessage flips the enabled flag as one locked read-modify-write, so a
// concurrent update cannot be lost between reading the flag and writing it.
func (bs *BoardService) ToggleMessage(id uuid.UUID) (*models.Message, bool, error) {
	msg, ok := bs.store.ApplyMessage(id, func(m *models.Message) {
		m.Enabled = !m.Enabled
	})
	if !ok {
		return nil, false, nil
	}
	if err := bs.persister.Persist(); err != nil {
		return nil, true, fmt.Errorf("persist after toggle: %w", err)
	}
	return msg, true, nil
}

func (bs *BoardService) DeleteMessage(id uuid.UUID) (bool, error) {
	if !bs.store.DeleteMessage(id) {
		return false, nil
	}
	if err := bs.persister.Persist(); err != nil {
		return true, fmt.Errorf("persist after delete: %w", err)
	}
	return true, nil
}

func (bs *BoardService) Clients() []*models.ClientStatus {
	return bs.store.Clients()
}

func (bs *BoardService) OnlineClients() []*models.ClientStatus {
	now := time.Now().UTC()
	all := bs.store.Clients()
	online := all[:0]
	for _, client := range all {
		if client.Online(now, bs.window) {
			online = append(online, client)
		}
	}
	return online
}

func (bs *BoardService) UpsertClient(client *models.ClientStatus) error {
	bs.store.UpsertClient(client)
	if err := bs.persister.Persist(); err != nil {
		return fmt.Errorf("persist after client upsert: %w", err)
	}
	return nil
}

func (bs *BoardService) MarkClientOffline(id string) (bool, error) {
	if !bs.store.MarkClientOffline(id) {
		return false, nil
	}
	if err := bs.persister.Persist(); err != nil {
		return true, fmt.Errorf("persist after client offline: %w", err)
	}
	return true, nil
}

func (bs *BoardService) Stats() *models.DataStats {
	now := time.Now().UTC()

	messages := bs.store.Messages()
	active := 0
	for _, msg := range messages {
		if msg.Active(now) {
			active++
		}
	}

	clients := bs.store.Clients()
	online := 0
	for _, client := range clients {
		if client.Online(now, bs.window) {
			online++
		}
	}

	return &models.DataStats{
		TotalMessages:  len(messages),
		ActiveMessages: active,
		TotalClients:   len(clients),
		OnlineClients:  online,
		LastUpdated:    bs.store.LastUpdated(),
	}
}

func (bs *BoardService) MessageCount() int {
	return bs.store.MessageCount()
}

func (bs *BoardService) ClientCount() int {
	return bs.store.ClientCount()
}

// Priority rank ascending (urgent first), newest first within equal priority.
func sortMessages(messages []*models.Message) {
	sort.Slice(messages, func(i, j int) bool {
		ri, rj := messages[i].Priority.Rank(), messages[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}
