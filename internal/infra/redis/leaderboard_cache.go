// Package redis caches rendered leaderboards between requests. Boards are
// recomputed from backend data on every miss; nothing here is a source of
// truth.
package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"tekno-rank-service/internal/domain"
)

// LeaderboardCache memoizes leaderboard responses under their query key
// with a short TTL. Concurrent misses for one key collapse to a single
// compute; cache failures degrade to computing, never to request failures.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]domain.RankEntry, error)) ([]domain.RankEntry, error) {
	if entries, ok := c.lookup(ctx, key); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if entries, ok := c.lookup(ctx, key); ok {
			return entries, nil
		}

		entries, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(entries); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err(); err != nil {
				log.Printf("warn: leaderboard cache write failed for %s: %v", key, err)
			}
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RankEntry), nil
}

func (c *LeaderboardCache) lookup(ctx context.Context, key string) ([]domain.RankEntry, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.RankEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
