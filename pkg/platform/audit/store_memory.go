package audit

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore keeps events per buyer. Suitable for development and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(event.Buyer)
	s.events[key] = append(s.events[key], event)
	return nil
}

func (s *InMemoryStore) ListByBuyer(_ context.Context, buyer string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[strings.ToLower(buyer)]...), nil
}
