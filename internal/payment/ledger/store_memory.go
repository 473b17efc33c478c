package ledger

import (
	"context"
	"sync"
)

// InMemoryStore keeps the development and test setup lightweight. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu           sync.RWMutex
	reservations map[string]Reservation
	byOrder      map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		reservations: make(map[string]Reservation),
		byOrder:      make(map[string]string),
	}
}

func (s *InMemoryStore) Save(_ context.Context, r Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ReservationID] = r
	if r.OrderID != "" {
		s.byOrder[r.OrderID] = r.ReservationID
	}
	return nil
}

func (s *InMemoryStore) FindByReservationID(_ context.Context, reservationID string) (Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.reservations[reservationID]; ok {
		return r, nil
	}
	return Reservation{}, ErrNotFound
}

func (s *InMemoryStore) FindByOrderID(_ context.Context, orderID string) (Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reservationID, ok := s.byOrder[orderID]; ok {
		return s.reservations[reservationID], nil
	}
	return Reservation{}, ErrNotFound
}

func (s *InMemoryStore) AttachOrder(_ context.Context, reservationID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[reservationID]
	if !ok {
		return ErrNotFound
	}
	if r.OrderID != "" {
		return ErrOrderAttached
	}
	r.OrderID = orderID
	s.reservations[reservationID] = r
	s.byOrder[orderID] = reservationID
	return nil
}
