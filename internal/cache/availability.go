package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fitbook/internal/logger"
	"fitbook/internal/metrics"
)

// AvailabilityCache memoizes "is equipment E free at slot S on date D" lookups.
// Every commit and cancel must invalidate the keys it touches; a stale positive
// entry would let the validator approve a request the store will reject anyway,
// but a stale negative entry would hide freed capacity.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailability(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func NewAvailabilityFromAddr(addr string, ttl time.Duration) *AvailabilityCache {
	return NewAvailability(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func key(equipmentID, slotID int, date time.Time) string {
	return fmt.Sprintf("avail:%d:%s:%d", equipmentID, date.Format("2006-01-02"), slotID)
}

// Get returns (available, found). Errors degrade to a miss; the store is the
// source of truth.
func (c *AvailabilityCache) Get(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, bool) {
	val, err := c.client.Get(ctx, key(equipmentID, slotID, date)).Result()
	if err == redis.Nil {
		metrics.RecordCacheLookup("miss")
		return false, false
	}
	if err != nil {
		logger.Debugf("availability cache get failed: %v", err)
		metrics.RecordCacheLookup("error")
		return false, false
	}

	metrics.RecordCacheLookup("hit")
	return val == "1", true
}

func (c *AvailabilityCache) Set(ctx context.Context, equipmentID, slotID int, date time.Time, available bool) {
	val := "0"
	if available {
		val = "1"
	}
	if err := c.client.Set(ctx, key(equipmentID, slotID, date), val, c.ttl).Err(); err != nil {
		logger.Debugf("availability cache set failed: %v", err)
	}
}

// Invalidate drops the entries for the given slot claims. Called on every
// successful commit and cancel.
func (c *AvailabilityCache) Invalidate(ctx context.Context, equipmentID int, date time.Time, slotIDs []int) {
	keys := make([]string, 0, len(slotIDs))
	for _, slotID := range slotIDs {
		keys = append(keys, key(equipmentID, slotID, date))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debugf("availability cache invalidate failed: %v", err)
	}
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}
