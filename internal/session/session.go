package session

import (
	"maps"
	"sync"
)

// Session holds per-visitor state for the lifetime of a request. Mutations
// mark the session dirty so the manager knows to persist it.
type Session struct {
	token string
	fresh bool

	mu     sync.RWMutex
	values map[string]any
	dirty  bool
}

func newSession(token string, values map[string]any, fresh bool) *Session {
	if values == nil {
		values = map[string]any{}
	}
	return &Session{
		token:  token,
		fresh:  fresh,
		values: values,
	}
}

// Token returns the signed token backing this session.
func (s *Session) Token() string {
	return s.token
}

// IsNew reports whether the session was created during this request rather
// than loaded from the store.
func (s *Session) IsNew() bool {
	return s.fresh
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// GetString returns the string stored under key, empty when absent or not a
// string.
func (s *Session) GetString(key string) string {
	value, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := value.(string)
	return str
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.dirty = true
}

// Delete removes key from the session.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Clear removes every value.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) > 0 {
		s.values = map[string]any{}
		s.dirty = true
	}
}

// Values returns a copy of the stored values.
func (s *Session) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	maps.Copy(out, s.values)
	return out
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}
