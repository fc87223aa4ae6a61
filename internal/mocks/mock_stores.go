package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

// InMemoryFlowStore mirrors the redis-backed store for handler tests.
type InMemoryFlowStore struct {
	mu    sync.Mutex
	flows map[string]*domain.Flow
}

func NewInMemoryFlowStore() *InMemoryFlowStore {
	return &InMemoryFlowStore{flows: make(map[string]*domain.Flow)}
}

func (s *InMemoryFlowStore) Get(ctx context.Context, sessionID string) (*domain.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[sessionID]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}

	clone := *flow
	clone.Seats = append([]domain.Seat(nil), flow.Seats...)
	clone.Selection.Seats = append([]domain.Seat(nil), flow.Selection.Seats...)

	return &clone, nil
}

func (s *InMemoryFlowStore) Save(ctx context.Context, sessionID string, flow *domain.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *flow
	clone.Seats = append([]domain.Seat(nil), flow.Seats...)
	clone.Selection.Seats = append([]domain.Seat(nil), flow.Selection.Seats...)
	s.flows[sessionID] = &clone

	return nil
}

func (s *InMemoryFlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.flows, sessionID)

	return nil
}

type InMemoryInvoiceStore struct {
	mu       sync.Mutex
	invoices map[string]domain.BookingConfirmation
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{invoices: make(map[string]domain.BookingConfirmation)}
}

func (s *InMemoryInvoiceStore) Save(ctx context.Context, sessionID string, confirmation domain.BookingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices[sessionID+":"+confirmation.BookingID] = confirmation

	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, sessionID, bookingID string) (*domain.BookingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmation, ok := s.invoices[sessionID+":"+bookingID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	return &confirmation, nil
}

type InMemoryBookingCache struct {
	mu    sync.Mutex
	seats map[string][]string
}

func NewInMemoryBookingCache() *InMemoryBookingCache {
	return &InMemoryBookingCache{seats: make(map[string][]string)}
}

func (c *InMemoryBookingCache) Record(ctx context.Context, sessionID string, scheduleID int64, seatCodes []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(sessionID, scheduleID)
	c.seats[key] = append(c.seats[key], seatCodes...)

	return nil
}

func (c *InMemoryBookingCache) SeatCodes(ctx context.Context, sessionID string, scheduleID int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.seats[cacheKey(sessionID, scheduleID)]...), nil
}

func cacheKey(sessionID string, scheduleID int64) string {
	return fmt.Sprintf("%s:%d", sessionID, scheduleID)
}
