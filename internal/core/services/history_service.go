package services

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

// StreakScheduler queues a habit for background streak recomputation.
type StreakScheduler interface {
	Enqueue(habitID string)
}

// StreakCache holds on-demand streak results per habit and calendar day. A miss
// returns a stamp for the following Set; results stored with a stamp issued before
// the last Invalidate are never served.
type StreakCache interface {
	Get(ctx context.Context, habitID, day string) (stats streak.Stats, stamp int64, ok bool, err error)
	Set(ctx context.Context, habitID, day string, stamp int64, stats streak.Stats) error
	Invalidate(ctx context.Context, habitID string) error
}

type HistoryService struct {
	habitRepo   domain.HabitRepository
	historyRepo domain.HistoryRepository
	scheduler   StreakScheduler
	cache       StreakCache
	streaks     *StreakReader
}

// NewHistoryService wires the history use cases. cache may be nil; clock defaults to the
// system clock and loc to UTC.
func NewHistoryService(
	habitRepo domain.HabitRepository,
	historyRepo domain.HistoryRepository,
	scheduler StreakScheduler,
	cache StreakCache,
	clock domain.Clock,
	loc *time.Location,
) *HistoryService {
	return &HistoryService{
		habitRepo:   habitRepo,
		historyRepo: historyRepo,
		scheduler:   scheduler,
		cache:       cache,
		streaks:     NewStreakReader(historyRepo, clock, loc),
	}
}

type MarkInput struct {
	HabitID string
	UserID  string
	// Date is optional; empty means today in the service location.
	Date string
}

func (s *HistoryService) Complete(ctx context.Context, input MarkInput) (*domain.HistoryEntry, error) {
	return s.mark(ctx, input, true)
}

func (s *HistoryService) Uncomplete(ctx context.Context, input MarkInput) (*domain.HistoryEntry, error) {
	return s.mark(ctx, input, false)
}

func (s *HistoryService) mark(ctx context.Context, input MarkInput, completed bool) (*domain.HistoryEntry, error) {
	loc := s.streaks.Location()
	date := s.streaks.Today()
	if input.Date != "" {
		parsed, err := streak.ParseDay(input.Date, loc)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	entry := domain.NewHistoryEntry(input.HabitID, input.UserID, date, completed, loc)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ownedHabit(ctx, input.HabitID, input.UserID); err != nil {
		return nil, err
	}

	if err := s.historyRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.HabitID)

	if s.scheduler != nil {
		s.scheduler.Enqueue(input.HabitID)
	}

	return entry, nil
}

func (s *HistoryService) List(ctx context.Context, habitID, userID string) ([]*domain.HistoryEntry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByHabitID(ctx, habitID)
}

// Streaks computes the streaks of a habit as of today. Cache errors are logged and
// fall through to a fresh computation.
func (s *HistoryService) Streaks(ctx context.Context, habitID, userID string) (streak.Stats, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return streak.Stats{}, err
	}

	today := s.streaks.Today()
	day := today.Format("2006-01-02")

	var stamp int64
	cacheable := s.cache != nil
	if cacheable {
		stats, st, ok, err := s.cache.Get(ctx, habitID, day)
		switch {
		case err != nil:
			log.Printf("[CACHE] streak lookup failed for habit %s: %v", habitID, err)
			cacheable = false
		case ok:
			return stats, nil
		default:
			stamp = st
		}
	}

	stats, err := s.streaks.computeAt(ctx, habitID, today)
	if err != nil {
		return streak.Stats{}, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, habitID, day, stamp, stats); err != nil {
			log.Printf("[CACHE] failed to store streaks for habit %s: %v", habitID, err)
		}
	}

	return stats, nil
}

func (s *HistoryService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return habit, nil
}

func (s *HistoryService) invalidate(ctx context.Context, habitID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, habitID); err != nil {
		log.Printf("[CACHE] failed to invalidate streaks for habit %s: %v", habitID, err)
	}
}
