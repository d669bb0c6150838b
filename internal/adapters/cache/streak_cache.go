package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

const DefaultStreakTTL = 10 * time.Minute

// RedisStreakCache stores computed streaks in one hash per habit generation, one
// field per reference day. Invalidate bumps the generation, so a result computed
// before it lands in a hash nobody reads. Generation counters carry no TTL and are
// therefore never reused.
type RedisStreakCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStreakCache(client *redis.Client, ttl time.Duration) *RedisStreakCache {
	if ttl <= 0 {
		ttl = DefaultStreakTTL
	}
	return &RedisStreakCache{client: client, ttl: ttl}
}

func generationKey(habitID string) string {
	return fmt.Sprintf("kanso:streaks:%s:gen", habitID)
}

func streakKey(habitID string, gen int64) string {
	return fmt.Sprintf("kanso:streaks:%s:%d", habitID, gen)
}

func (c *RedisStreakCache) generation(ctx context.Context, habitID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(habitID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisStreakCache) Get(ctx context.Context, habitID, day string) (streak.Stats, int64, bool, error) {
	gen, err := c.generation(ctx, habitID)
	if err != nil {
		return streak.Stats{}, 0, false, fmt.Errorf("streak cache generation: %w", err)
	}

	key := streakKey(habitID, gen)
	raw, err := c.client.HGet(ctx, key, day).Bytes()
	if errors.Is(err, redis.Nil) {
		return streak.Stats{}, gen, false, nil
	}
	if err != nil {
		return streak.Stats{}, 0, false, fmt.Errorf("streak cache get: %w", err)
	}

	var stats streak.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.client.HDel(ctx, key, day)
		return streak.Stats{}, gen, false, nil
	}
	return stats, gen, true, nil
}

func (c *RedisStreakCache) Set(ctx context.Context, habitID, day string, stamp int64, stats streak.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := streakKey(habitID, stamp)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, day, data)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("streak cache set: %w", err)
	}
	return nil
}

func (c *RedisStreakCache) Invalidate(ctx context.Context, habitID string) error {
	gen, err := c.client.Incr(ctx, generationKey(habitID)).Result()
	if err != nil {
		return fmt.Errorf("streak cache invalidate: %w", err)
	}
	// The previous generation is unreachable now; drop it instead of waiting for the TTL.
	if err := c.client.Del(ctx, streakKey(habitID, gen-1)).Err(); err != nil {
		return fmt.Errorf("streak cache invalidate: %w", err)
	}
	return nil
}
