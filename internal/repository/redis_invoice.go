package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

const invoiceTTL = 24 * time.Hour

// RedisInvoiceStore holds booking confirmations for re-render and PDF
// printing, scoped to the session that paid for them.
type RedisInvoiceStore struct {
	client redis.UniversalClient
}

func NewRedisInvoiceStore(client redis.UniversalClient) *RedisInvoiceStore {
	return &RedisInvoiceStore{client: client}
}

func (s *RedisInvoiceStore) Save(ctx context.Context, sessionID string, confirmation domain.BookingConfirmation) error {
	raw, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	return s.client.Set(ctx, invoiceKey(sessionID, confirmation.BookingID), raw, invoiceTTL).Err()
}

func (s *RedisInvoiceStore) Get(ctx context.Context, sessionID, bookingID string) (*domain.BookingConfirmation, error) {
	raw, err := s.client.Get(ctx, invoiceKey(sessionID, bookingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	var confirmation domain.BookingConfirmation
	if err := json.Unmarshal(raw, &confirmation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}

	return &confirmation, nil
}

func invoiceKey(sessionID, bookingID string) string {
	return fmt.Sprintf("invoice:%s:%s", sessionID, bookingID)
}
