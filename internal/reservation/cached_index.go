package reservation

import (
	"context"
	"time"

	"fitbook/internal/cache"
)

// cachedIndex decorates an AvailabilityIndex with the redis availability
// cache. Only IsAvailable is memoized: the member-scoped cap and run reads
// must always be fresh. Entries are invalidated by the orchestrator on every
// commit and cancel.
type cachedIndex struct {
	index AvailabilityIndex
	avail *cache.AvailabilityCache
}

func NewCachedIndex(index AvailabilityIndex, avail *cache.AvailabilityCache) AvailabilityIndex {
	if avail == nil {
		return index
	}
	return &cachedIndex{index: index, avail: avail}
}

func (c *cachedIndex) IsAvailable(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, error) {
	if free, found := c.avail.Get(ctx, equipmentID, slotID, date); found {
		return free, nil
	}

	free, err := c.index.IsAvailable(ctx, equipmentID, slotID, date)
	if err != nil {
		return false, err
	}

	c.avail.Set(ctx, equipmentID, slotID, date, free)
	return free, nil
}

func (c *cachedIndex) DailyReservationCount(ctx context.Context, memberID int, date time.Time) (int, error) {
	return c.index.DailyReservationCount(ctx, memberID, date)
}

func (c *cachedIndex) SameDaySlots(ctx context.Context, memberID int, date time.Time) ([]int, error) {
	return c.index.SameDaySlots(ctx, memberID, date)
}
