package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	mu     sync.Mutex
	queued []string
}

func (r *recordingScheduler) Enqueue(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, habitID)
}

type MockStreakCache struct {
	mock.Mock
}

func (m *MockStreakCache) Get(ctx context.Context, habitID, day string) (streak.Stats, int64, bool, error) {
	args := m.Called(ctx, habitID, day)
	return args.Get(0).(streak.Stats), args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *MockStreakCache) Set(ctx context.Context, habitID, day string, stamp int64, stats streak.Stats) error {
	return m.Called(ctx, habitID, day, stamp, stats).Error(0)
}

func (m *MockStreakCache) Invalidate(ctx context.Context, habitID string) error {
	return m.Called(ctx, habitID).Error(0)
}

type historyFixture struct {
	svc       *services.HistoryService
	habits    *repository.InMemoryHabitRepository
	history   *repository.InMemoryHistoryRepository
	scheduler *recordingScheduler
	habit     *domain.Habit
}

// fixedNow is 2024-01-10 20:00 UTC; in Tokyo it is already the 11th.
var fixedNow = time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)

func newHistoryFixture(t *testing.T, cache services.StreakCache, loc *time.Location) *historyFixture {
	t.Helper()

	habits := repository.NewInMemoryHabitRepository()
	history := repository.NewInMemoryHistoryRepository()
	scheduler := &recordingScheduler{}

	habit, err := domain.NewHabit("owner", domain.HabitParams{Name: "Meditate"})
	require.NoError(t, err)
	require.NoError(t, habits.Create(context.Background(), habit))

	clock := func() time.Time { return fixedNow }

	return &historyFixture{
		svc:       services.NewHistoryService(habits, history, scheduler, cache, clock, loc),
		habits:    habits,
		history:   history,
		scheduler: scheduler,
		habit:     habit,
	}
}

func TestHistoryService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Defaults to today and enqueues recomputation", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		entry, err := f.svc.Complete(ctx, services.MarkInput{HabitID: f.habit.ID, UserID: "owner"})
		require.NoError(t, err)

		assert.Equal(t, "2024-01-10", entry.DateString())
		assert.True(t, entry.Completed)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, []string{f.habit.ID}, f.scheduler.queued)
	})

	t.Run("Success: Today follows the configured location", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			t.Skip("tzdata not available")
		}
		f := newHistoryFixture(t, nil, tokyo)

		entry, err := f.svc.Complete(ctx, services.MarkInput{HabitID: f.habit.ID, UserID: "owner"})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-11", entry.DateString())
	})

	t.Run("Success: Explicit date and upsert semantics", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)
		in := services.MarkInput{HabitID: f.habit.ID, UserID: "owner", Date: "2024-01-05"}

		first, err := f.svc.Complete(ctx, in)
		require.NoError(t, err)

		second, err := f.svc.Uncomplete(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.False(t, second.Completed)

		entries, err := f.svc.List(ctx, f.habit.ID, "owner")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Completed)
	})

	t.Run("Fail: Unparseable date", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		_, err := f.svc.Complete(ctx, services.MarkInput{HabitID: f.habit.ID, UserID: "owner", Date: "yesterday"})
		assert.ErrorIs(t, err, streak.ErrInvalidHistoryEntry)
		assert.Empty(t, f.scheduler.queued)
	})

	t.Run("Fail: Foreign habit", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		_, err := f.svc.Complete(ctx, services.MarkInput{HabitID: f.habit.ID, UserID: "intruder"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Empty(t, f.scheduler.queued)
	})

	t.Run("Fail: Unknown habit", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		_, err := f.svc.Complete(ctx, services.MarkInput{HabitID: "missing", UserID: "owner"})
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Fail: Missing habit id", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		_, err := f.svc.Complete(ctx, services.MarkInput{UserID: "owner"})
		assert.ErrorIs(t, err, domain.ErrInvalidEntry)
	})
}

func TestHistoryService_Streaks(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *historyFixture, days map[string]bool) {
		t.Helper()
		for d, done := range days {
			in := services.MarkInput{HabitID: f.habit.ID, UserID: "owner", Date: d}
			var err error
			if done {
				_, err = f.svc.Complete(ctx, in)
			} else {
				_, err = f.svc.Uncomplete(ctx, in)
			}
			require.NoError(t, err)
		}
	}

	t.Run("Success: Computes from stored history", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)
		seed(t, f, map[string]bool{
			"2024-01-10": true,
			"2024-01-09": true,
			"2024-01-08": false,
			"2024-01-07": true,
			"2024-01-06": true,
			"2024-01-05": true,
		})

		stats, err := f.svc.Streaks(ctx, f.habit.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, streak.Stats{Current: 2, Longest: 3}, stats)
	})

	t.Run("Success: Cache hit skips computation", func(t *testing.T) {
		cache := new(MockStreakCache)
		f := newHistoryFixture(t, cache, time.UTC)

		cache.On("Get", ctx, f.habit.ID, "2024-01-10").Return(streak.Stats{Current: 9, Longest: 9}, int64(0), true, nil)

		stats, err := f.svc.Streaks(ctx, f.habit.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, 9, stats.Current)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success: Cache miss stores the fresh result", func(t *testing.T) {
		cache := new(MockStreakCache)
		f := newHistoryFixture(t, cache, time.UTC)

		cache.On("Invalidate", ctx, f.habit.ID).Return(nil)
		seed(t, f, map[string]bool{"2024-01-10": true})

		cache.On("Get", ctx, f.habit.ID, "2024-01-10").Return(streak.Stats{}, int64(7), false, nil)
		cache.On("Set", ctx, f.habit.ID, "2024-01-10", int64(7), streak.Stats{Current: 1, Longest: 1}).Return(nil)

		stats, err := f.svc.Streaks(ctx, f.habit.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, streak.Stats{Current: 1, Longest: 1}, stats)
		cache.AssertExpectations(t)
	})

	t.Run("Success: Cache failures fall through without a write", func(t *testing.T) {
		cache := new(MockStreakCache)
		f := newHistoryFixture(t, cache, time.UTC)

		cache.On("Get", ctx, f.habit.ID, "2024-01-10").Return(streak.Stats{}, int64(0), false, errors.New("redis down"))

		stats, err := f.svc.Streaks(ctx, f.habit.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, streak.Stats{}, stats)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Foreign habit", func(t *testing.T) {
		f := newHistoryFixture(t, nil, time.UTC)

		_, err := f.svc.Streaks(ctx, f.habit.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = f.svc.List(ctx, f.habit.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

// generationCache mirrors the Redis streak cache: Invalidate bumps a per-habit
// generation and results are stored under the stamp they were computed with.
type generationCache struct {
	mu   sync.Mutex
	gen  map[string]int64
	data map[string]streak.Stats
}

func newGenerationCache() *generationCache {
	return &generationCache{gen: map[string]int64{}, data: map[string]streak.Stats{}}
}

func generationField(habitID string, gen int64, day string) string {
	return fmt.Sprintf("%s/%d/%s", habitID, gen, day)
}

func (c *generationCache) Get(_ context.Context, habitID, day string) (streak.Stats, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gen[habitID]
	stats, ok := c.data[generationField(habitID, gen, day)]
	return stats, gen, ok, nil
}

func (c *generationCache) Set(_ context.Context, habitID, day string, stamp int64, stats streak.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[generationField(habitID, stamp, day)] = stats
	return nil
}

func (c *generationCache) Invalidate(_ context.Context, habitID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[habitID]++
	return nil
}

// interleavingHistory runs onRead once, after the first history read has completed.
type interleavingHistory struct {
	*repository.InMemoryHistoryRepository
	once   sync.Once
	onRead func()
}

func (h *interleavingHistory) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HistoryEntry, error) {
	entries, err := h.InMemoryHistoryRepository.ListByHabitID(ctx, habitID)
	h.once.Do(h.onRead)
	return entries, err
}

func TestHistoryService_StreaksCacheSurvivesConcurrentMark(t *testing.T) {
	ctx := context.Background()

	habits := repository.NewInMemoryHabitRepository()
	habit, err := domain.NewHabit("owner", domain.HabitParams{Name: "Stretch"})
	require.NoError(t, err)
	require.NoError(t, habits.Create(ctx, habit))

	history := &interleavingHistory{InMemoryHistoryRepository: repository.NewInMemoryHistoryRepository()}
	clock := func() time.Time { return fixedNow }
	svc := services.NewHistoryService(habits, history, nil, newGenerationCache(), clock, time.UTC)

	_, err = svc.Complete(ctx, services.MarkInput{HabitID: habit.ID, UserID: "owner", Date: "2024-01-09"})
	require.NoError(t, err)

	history.onRead = func() {
		_, err := svc.Complete(ctx, services.MarkInput{HabitID: habit.ID, UserID: "owner"})
		require.NoError(t, err)
	}

	stale, err := svc.Streaks(ctx, habit.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, streak.Stats{Current: 0, Longest: 1}, stale, "computed from the history read before the mark")

	fresh, err := svc.Streaks(ctx, habit.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, streak.Stats{Current: 2, Longest: 2}, fresh)
}
