package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/aria/pkg/domain"
)

// Store implements ports.PreferencesStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Preferences
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Preferences),
	}
}

// Save persists a copy of prefs.
func (s *Store) Save(ctx context.Context, profile string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[profile] = prefs.Clone()
	return nil
}

// Load returns a copy so callers can't mutate the stored record.
func (s *Store) Load(ctx context.Context, profile string) (domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.data[profile]
	if !ok {
		return domain.Preferences{}, domain.ErrPreferencesNotFound
	}
	return prefs.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profile)
	return nil
}

// List returns the saved profiles, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]string, 0, len(s.data))
	for id := range s.data {
		profiles = append(profiles, id)
	}
	sort.Strings(profiles)
	return profiles, nil
}
