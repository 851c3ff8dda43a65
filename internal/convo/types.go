package convo

import (
	"context"
	"time"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversational message within a session.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store owns ordered conversation history per session. Append is the only
// mutator besides Reset; History always observes a consistent ordered
// sequence, and Reset clears one session atomically.
type Store interface {
	Append(ctx context.Context, turn Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Reset(ctx context.Context, sessionID string) error
	Close() error
}
