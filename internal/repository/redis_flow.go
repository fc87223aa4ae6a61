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

const flowTTL = 30 * time.Minute

// RedisFlowStore keeps each session's booking flow state as serialized JSON
// keyed by the scs session token. The TTL bounds abandoned flows; nothing is
// ever written to the backend before checkout.
type RedisFlowStore struct {
	client redis.UniversalClient
}

func NewRedisFlowStore(client redis.UniversalClient) *RedisFlowStore {
	return &RedisFlowStore{client: client}
}

func (s *RedisFlowStore) Get(ctx context.Context, sessionID string) (*domain.Flow, error) {
	raw, err := s.client.Get(ctx, flowKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrFlowNotFound
		}
		return nil, err
	}

	var flow domain.Flow
	if err := json.Unmarshal(raw, &flow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow state: %w", err)
	}

	return &flow, nil
}

func (s *RedisFlowStore) Save(ctx context.Context, sessionID string, flow *domain.Flow) error {
	raw, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal flow state: %w", err)
	}

	return s.client.Set(ctx, flowKey(sessionID), raw, flowTTL).Err()
}

func (s *RedisFlowStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, flowKey(sessionID)).Err()
}

func flowKey(sessionID string) string {
	return fmt.Sprintf("flow:%s", sessionID)
}
