package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority levels are serialized as lowercase strings. Rank orders urgent
// first; unknown values sort last.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

type Message struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Priority  Priority   `json:"priority"`
	ExpiresAt *time.Time `json:"expires_at"`
	Enabled   bool       `json:"enabled"`
}

// Active reports whether the message has no expiry or expires strictly
// after now. Expired messages stay stored until explicitly deleted.
func (m *Message) Active(now time.Time) bool {
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}

type CreateMessage struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	Priority  Priority   `json:"priority"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateMessage carries a partial update: nil means "leave unchanged",
// never "clear to default".
type UpdateMessage struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Author    *string    `json:"author"`
	Priority  *Priority  `json:"priority"`
	ExpiresAt *time.Time `json:"expires_at"`
	Enabled   *bool      `json:"enabled"`
}

type PaginatedMessages struct {
	Data       []*Message `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
