package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// MemoryStore keeps session records in process memory. It is the default
// store and suits development and single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*interfaces.SessionRecord
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]*interfaces.SessionRecord{}}
}

// Get returns the record for token, nil when absent.
func (s *MemoryStore) Get(ctx context.Context, token string) (*interfaces.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[token]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

// Put stores the record keyed by its token.
func (s *MemoryStore) Put(ctx context.Context, record *interfaces.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Token] = cloneRecord(record)
	return nil
}

// Delete removes the record for token.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
	return nil
}

// Purge drops records that expired before cutoff.
func (s *MemoryStore) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, record := range s.records {
		if !record.ExpiresAt.IsZero() && record.ExpiresAt.Before(cutoff) {
			delete(s.records, token)
			removed++
		}
	}
	return removed, nil
}

func cloneRecord(record *interfaces.SessionRecord) *interfaces.SessionRecord {
	out := *record
	out.Values = make(map[string]any, len(record.Values))
	maps.Copy(out.Values, record.Values)
	return &out
}

var _ interfaces.SessionStore = (*MemoryStore)(nil)
