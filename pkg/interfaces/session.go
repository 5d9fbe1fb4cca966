package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRecord is the persisted shape of a server-side session.
type SessionRecord struct {
	ID        uuid.UUID
	Token     string
	Values    map[string]any
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore persists session records keyed by their signed token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*SessionRecord, error)
	Put(ctx context.Context, record *SessionRecord) error
	Delete(ctx context.Context, token string) error
	// Purge removes records that expired before the supplied cutoff.
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}
