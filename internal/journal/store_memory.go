package journal

import (
	"context"
	"sync"
)

// InMemoryStore keeps the single-process default lightweight and testable.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.JourneyID] = append(s.entries[entry.JourneyID], entry)
	return nil
}

func (s *InMemoryStore) ListByJourney(_ context.Context, journeyID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[journeyID]...), nil
}

func (s *InMemoryStore) Drop(_ context.Context, journeyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, journeyID)
	return nil
}
