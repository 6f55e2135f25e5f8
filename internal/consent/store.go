package consent

import (
	"sync"
	"time"
)

// PreferenceStore persists consent choices. storage.Store satisfies it.
type PreferenceStore interface {
	SetPreference(key, value string, expiresAt time.Time) error
	Preference(key string, now time.Time) (string, bool, error)
	DeletePreference(key string) error
}

// MemoryStore is a process-local PreferenceStore, used when the database
// cannot be opened.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]memoryEntry)}
}

// SetPreference implements PreferenceStore.
func (s *MemoryStore) SetPreference(key, value string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Preference implements PreferenceStore.
func (s *MemoryStore) Preference(key string, now time.Time) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.values[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		delete(s.values, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// DeletePreference implements PreferenceStore.
func (s *MemoryStore) DeletePreference(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
