package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
	"github.com/uptrace/bun"
)

type sessionRow struct {
	bun.BaseModel `bun:"table:jsweb_sessions,alias:sess"`

	ID        uuid.UUID      `bun:",pk,type:uuid"`
	Token     string         `bun:"token,notnull,unique"`
	Data      map[string]any `bun:"data,type:jsonb,notnull"`
	ExpiresAt time.Time      `bun:"expires_at,notnull"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp"`
}

// BunStore persists sessions in the application database so they survive
// process restarts and are shared between instances.
type BunStore struct {
	db *bun.DB
}

// NewBunStore constructs a database-backed session store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Migrate creates the sessions table when it does not exist yet.
func (s *BunStore) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*sessionRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("session: create sessions table: %w", err)
	}
	return nil
}

// Get returns the record for token, nil when absent.
func (s *BunStore) Get(ctx context.Context, token string) (*interfaces.SessionRecord, error) {
	row := new(sessionRow)
	err := s.db.NewSelect().
		Model(row).
		Where("token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: load record: %w", err)
	}

	return &interfaces.SessionRecord{
		ID:        row.ID,
		Token:     row.Token,
		Values:    row.Data,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Put upserts the record keyed by its derived id.
func (s *BunStore) Put(ctx context.Context, record *interfaces.SessionRecord) error {
	row := &sessionRow{
		ID:        record.ID,
		Token:     record.Token,
		Data:      record.Values,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if row.Data == nil {
		row.Data = map[string]any{}
	}

	if _, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("session: store record: %w", err)
	}
	return nil
}

// Delete removes the record for token.
func (s *BunStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.NewDelete().
		Model((*sessionRow)(nil)).
		Where("token = ?", token).
		Exec(ctx); err != nil {
		return fmt.Errorf("session: delete record: %w", err)
	}
	return nil
}

// Purge drops records that expired before cutoff.
func (s *BunStore) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.NewDelete().
		Model((*sessionRow)(nil)).
		Where("expires_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("session: purge records: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

var _ interfaces.SessionStore = (*BunStore)(nil)
