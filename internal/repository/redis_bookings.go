package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const recentBookingTTL = 12 * time.Hour

// RedisBookingCache remembers seat codes the session itself booked recently,
// per schedule. It backs the last overlay tier and is explicitly partial: it
// reflects nothing booked by other sessions.
type RedisBookingCache struct {
	client redis.UniversalClient
}

func NewRedisBookingCache(client redis.UniversalClient) *RedisBookingCache {
	return &RedisBookingCache{client: client}
}

func (c *RedisBookingCache) Record(ctx context.Context, sessionID string, scheduleID int64, seatCodes []string) error {
	if len(seatCodes) == 0 {
		return nil
	}

	key := recentBookingKey(sessionID, scheduleID)
	members := make([]interface{}, len(seatCodes))
	for i, code := range seatCodes {
		members[i] = code
	}

	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, recentBookingTTL)

	_, err := pipe.Exec(ctx)

	return err
}

func (c *RedisBookingCache) SeatCodes(ctx context.Context, sessionID string, scheduleID int64) ([]string, error) {
	return c.client.SMembers(ctx, recentBookingKey(sessionID, scheduleID)).Result()
}

func recentBookingKey(sessionID string, scheduleID int64) string {
	return fmt.Sprintf("recent_bookings:%s:%d", sessionID, scheduleID)
}
