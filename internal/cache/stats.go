package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookmart/pkg/domain"
)

const defaultStatsTTL = 5 * time.Minute

// StatsCache memoizes per-owner catalog statistics. Entries are invalidated
// on every create/update/delete for the affected owner, so staleness is
// bounded by the TTL only when invalidation is missed.
type StatsCache interface {
	Get(ctx context.Context, ownerID string) (domain.OwnerStats, bool, error)
	Set(ctx context.Context, ownerID string, stats domain.OwnerStats) error
	Invalidate(ctx context.Context, ownerID string) error
}

// RedisStatsCache implements StatsCache on Redis.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects to Redis.
func NewRedisStatsCache(addr, password string, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &RedisStatsCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

func statsKey(ownerID string) string {
	return "stats:owner:" + ownerID
}

// Get returns cached stats when present.
func (c *RedisStatsCache) Get(ctx context.Context, ownerID string) (domain.OwnerStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.OwnerStats{}, false, nil
		}
		return domain.OwnerStats{}, false, fmt.Errorf("stats cache get: %w", err)
	}
	var stats domain.OwnerStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// Treat undecodable entries as a miss; they get overwritten.
		return domain.OwnerStats{}, false, nil
	}
	return stats, true, nil
}

// Set stores stats with the cache TTL.
func (c *RedisStatsCache) Set(ctx context.Context, ownerID string, stats domain.OwnerStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(ownerID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

// Invalidate drops the owner's entry.
func (c *RedisStatsCache) Invalidate(ctx context.Context, ownerID string) error {
	if err := c.client.Del(ctx, statsKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
