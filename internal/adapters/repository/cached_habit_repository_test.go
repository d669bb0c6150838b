package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_HOST", "localhost") + ":" + envOr("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}

	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	inner := NewInMemoryHabitRepository()
	repo := NewCachedHabitRepository(inner, rdb, time.Minute)

	h, err := domain.NewHabit("u1", domain.HabitParams{Name: "Read"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, h))

	t.Run("List populates the cache", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)

		exists, err := rdb.Exists(ctx, habitListKey("u1")).Result()
		require.NoError(t, err)
		assert.EqualValues(t, 1, exists)
	})

	t.Run("Streak update invalidates the owner list", func(t *testing.T) {
		require.NoError(t, repo.UpdateStreaks(ctx, h.ID, 2, 5))

		exists, _ := rdb.Exists(ctx, habitListKey("u1")).Result()
		assert.EqualValues(t, 0, exists)

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, list[0].CurrentStreak)
	})

	t.Run("Corrupted payload falls back to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, habitListKey("u1"), "{oops", time.Minute).Err())

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Delete invalidates", func(t *testing.T) {
		_, _ = repo.ListByUserID(ctx, "u1")
		require.NoError(t, repo.Delete(ctx, h.ID))

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
