package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

// StreakReader computes streaks from stored history as of today in its location.
// The streak columns on habits are only a snapshot written by the worker; anything
// served to clients goes through here.
type StreakReader struct {
	history domain.HistoryRepository
	clock   domain.Clock
	loc     *time.Location
}

// NewStreakReader defaults clock to the system clock and loc to UTC.
func NewStreakReader(history domain.HistoryRepository, clock domain.Clock, loc *time.Location) *StreakReader {
	if clock == nil {
		clock = domain.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StreakReader{history: history, clock: clock, loc: loc}
}

// Today is the current instant in the reader's location.
func (r *StreakReader) Today() time.Time {
	return r.clock().In(r.loc)
}

func (r *StreakReader) Location() *time.Location {
	return r.loc
}

func (r *StreakReader) Compute(ctx context.Context, habitID string) (streak.Stats, error) {
	return r.computeAt(ctx, habitID, r.Today())
}

func (r *StreakReader) computeAt(ctx context.Context, habitID string, today time.Time) (streak.Stats, error) {
	history, err := r.history.ListByHabitID(ctx, habitID)
	if err != nil {
		return streak.Stats{}, err
	}
	return streak.Compute(domain.ToStreakEntries(history), today), nil
}

// Refresh overwrites the streak fields of habits with values computed now.
// All habits share one "today".
func (r *StreakReader) Refresh(ctx context.Context, habits ...*domain.Habit) error {
	today := r.Today()
	for _, h := range habits {
		stats, err := r.computeAt(ctx, h.ID, today)
		if err != nil {
			return err
		}
		h.CurrentStreak = stats.Current
		h.LongestStreak = stats.Longest
	}
	return nil
}
