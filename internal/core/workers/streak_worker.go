package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

const defaultQueueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type HistoryRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.HistoryEntry, error)
}

// Publisher announces streak changes to other processes.
type Publisher interface {
	PublishStreakChanged(ctx context.Context, event domain.StreakChanged) error
}

type StreakJob struct {
	HabitID string
}

type StreakWorker struct {
	habitRepo   HabitRepository
	historyRepo HistoryRepository
	publisher   Publisher
	clock       domain.Clock
	loc         *time.Location
	jobs        chan StreakJob
}

type Option func(*StreakWorker)

func WithPublisher(p Publisher) Option {
	return func(w *StreakWorker) { w.publisher = p }
}

func WithClock(c domain.Clock) Option {
	return func(w *StreakWorker) {
		if c != nil {
			w.clock = c
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(w *StreakWorker) {
		if loc != nil {
			w.loc = loc
		}
	}
}

func WithQueueSize(n int) Option {
	return func(w *StreakWorker) { w.jobs = make(chan StreakJob, n) }
}

func NewStreakWorker(hRepo HabitRepository, eRepo HistoryRepository, opts ...Option) *StreakWorker {
	w := &StreakWorker{
		habitRepo:   hRepo,
		historyRepo: eRepo,
		clock:       domain.SystemClock,
		loc:         time.UTC,
		jobs:        make(chan StreakJob, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("[WORKER] Streak worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks the caller: when the queue is full the job is dropped.
func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("[WORKER] Queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("[WORKER] Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	history, err := w.historyRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("[WORKER] Error fetching history for %s: %v", job.HabitID, err)
		return
	}

	now := w.clock().In(w.loc)
	stats := streak.Compute(domain.ToStreakEntries(history), now)

	if habit.CurrentStreak == stats.Current && habit.LongestStreak == stats.Longest {
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, stats.Current, stats.Longest); err != nil {
		log.Printf("[WORKER] Failed to update streak for %s: %v", job.HabitID, err)
		return
	}
	log.Printf("[WORKER] Streak updated for %s: Current=%d, Longest=%d", habit.Name, stats.Current, stats.Longest)

	if w.publisher == nil {
		return
	}

	event := domain.StreakChanged{
		HabitID:       habit.ID,
		UserID:        habit.UserID,
		HabitName:     habit.Name,
		CurrentStreak: stats.Current,
		LongestStreak: stats.Longest,
		ComputedAt:    now.UTC(),
	}
	if err := w.publisher.PublishStreakChanged(ctx, event); err != nil {
		log.Printf("[WORKER] Failed to publish streak change for %s: %v", job.HabitID, err)
	}
}
