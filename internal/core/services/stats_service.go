package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

const MaxStatsRangeDays = 366

var ErrInvalidRange = errors.New("invalid date range (start must not be after end, max 366 days)")

type StatsService struct {
	habitRepo   domain.HabitRepository
	historyRepo domain.HistoryRepository
	streaks     *StreakReader
}

// NewStatsService computes streaks as of clock() in loc; nil values default to the
// system clock and UTC.
func NewStatsService(habitRepo domain.HabitRepository, historyRepo domain.HistoryRepository, clock domain.Clock, loc *time.Location) *StatsService {
	return &StatsService{
		habitRepo:   habitRepo,
		historyRepo: historyRepo,
		streaks:     NewStreakReader(historyRepo, clock, loc),
	}
}

// GetWeeklyStats reports per-day completion flags for every active habit of the user
// over [StartDate, EndDate], with streaks computed as of today.
func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate := streak.Midnight(input.StartDate, input.StartDate.Location())
	endDate := streak.Midnight(input.EndDate, input.EndDate.Location())

	span := streak.Day(endDate) - streak.Day(startDate) + 1
	if span < 1 || span > MaxStatsRangeDays {
		return nil, ErrInvalidRange
	}

	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.streaks.Refresh(ctx, habits...); err != nil {
		return nil, err
	}

	stats := &domain.WeeklyStats{
		StartDate:   startDate.Format("2006-01-02"),
		EndDate:     endDate.Format("2006-01-02"),
		TotalHabits: len(habits),
		HabitStats:  make([]domain.HabitStat, 0, len(habits)),
	}

	if len(habits) == 0 {
		return stats, nil
	}

	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}

	entries, err := s.historyRepo.ListByHabitIDs(ctx, ids, startDate, endDate)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]map[string]bool)
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if _, exists := completed[e.HabitID]; !exists {
			completed[e.HabitID] = make(map[string]bool)
		}
		completed[e.HabitID][e.DateString()] = true
	}

	totalDaysPossible := 0
	totalDaysCompleted := 0

	for _, h := range habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitName:     h.Name,
			Colour:        h.Colour,
			HabitType:     h.HabitType,
			DailyProgress: make([]bool, 0, span),
			CurrentStreak: h.CurrentStreak,
			LongestStreak: h.LongestStreak,
		}

		for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
			done := completed[h.ID][d.Format("2006-01-02")]
			hStat.DailyProgress = append(hStat.DailyProgress, done)
			if done {
				hStat.DaysCompleted++
				totalDaysCompleted++
			}
			totalDaysPossible++
		}

		hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(len(hStat.DailyProgress)) * 100
		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	if totalDaysPossible > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysPossible) * 100
	}

	return stats, nil
}
