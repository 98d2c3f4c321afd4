package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Apportion/internal/budget"
)

// Session is one browser's category list.
type Session struct {
	ID        uuid.UUID    `json:"session_id"`
	State     budget.State `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store persists sessions. GetSession returns (nil, nil) when the session does not
// exist.
type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateSession(ctx context.Context, s *Session) error
	Close() error
}
