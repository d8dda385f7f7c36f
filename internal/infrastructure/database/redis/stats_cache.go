package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/order"
)

// JSONStore is the subset of Client the caches need
type JSONStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// StatsCache keeps vendor order statistics in Redis for a short TTL
type StatsCache struct {
	store JSONStore
	ttl   time.Duration
}

var _ order.StatsCache = (*StatsCache)(nil)

// NewStatsCache creates a statistics cache on top of store
func NewStatsCache(store JSONStore, ttl time.Duration) *StatsCache {
	return &StatsCache{store: store, ttl: ttl}
}

func statsKey(vendorID uint) string {
	return fmt.Sprintf("vendor:stats:%d", vendorID)
}

func (c *StatsCache) Get(ctx context.Context, vendorID uint) (*order.Statistics, error) {
	var stats order.Statistics
	err := c.store.GetJSON(ctx, statsKey(vendorID), &stats)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, vendorID uint, stats *order.Statistics) error {
	return c.store.SetJSON(ctx, statsKey(vendorID), stats, c.ttl)
}

func (c *StatsCache) Invalidate(ctx context.Context, vendorID uint) error {
	return c.store.Del(ctx, statsKey(vendorID))
}
