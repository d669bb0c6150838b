package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var (
	_ domain.HabitRepository   = (*InMemoryHabitRepository)(nil)
	_ domain.HistoryRepository = (*InMemoryHistoryRepository)(nil)
	_ domain.JournalRepository = (*InMemoryJournalRepository)(nil)
	_ domain.UserRepository    = (*InMemoryUserRepository)(nil)
)

// InMemoryHabitRepository mirrors the Postgres semantics (soft delete, optimistic
// locking) and returns copies so callers cannot mutate stored state.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[habit.ID]; exists {
		return domain.ErrHabitConflict
	}
	if habit.Version == 0 {
		habit.Version = 1
	}

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if existing.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	habit.CurrentStreak = existing.CurrentStreak
	habit.LongestStreak = existing.LongestStreak

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			clone := *h
			changes = append(changes, &clone)
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})

	return changes, nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	return habit.UpdateStreak(current, longest)
}

type historyKey struct {
	habitID string
	day     string
}

// InMemoryHistoryRepository keeps one entry per (habit, day), like the unique index in Postgres.
type InMemoryHistoryRepository struct {
	store map[historyKey]*domain.HistoryEntry

	mu sync.RWMutex
}

func NewInMemoryHistoryRepository() *InMemoryHistoryRepository {
	return &InMemoryHistoryRepository{
		store: make(map[historyKey]*domain.HistoryEntry),
	}
}

func (r *InMemoryHistoryRepository) Upsert(ctx context.Context, entry *domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := historyKey{habitID: entry.HabitID, day: entry.DateString()}
	now := time.Now().UTC()

	if existing, ok := r.store[key]; ok {
		existing.Completed = entry.Completed
		existing.UpdatedAt = now
		*entry = *existing
		return nil
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UpdatedAt = now

	clone := *entry
	r.store[key] = &clone
	return nil
}

func (r *InMemoryHistoryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.HistoryEntry{}
	for k, e := range r.store {
		if k.habitID == habitID {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sortHistory(entries)
	return entries, nil
}

func (r *InMemoryHistoryRepository) ListByHabitIDs(ctx context.Context, habitIDs []string, from, to time.Time) ([]*domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(habitIDs))
	for _, id := range habitIDs {
		wanted[id] = true
	}

	fromKey, toKey := from.Format("2006-01-02"), to.Format("2006-01-02")

	entries := []*domain.HistoryEntry{}
	for k, e := range r.store {
		if wanted[k.habitID] && k.day >= fromKey && k.day <= toKey {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sortHistory(entries)
	return entries, nil
}

func sortHistory(entries []*domain.HistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].HabitID < entries[j].HabitID
	})
}

type InMemoryJournalRepository struct {
	store map[string]*domain.JournalEntry

	mu sync.RWMutex
}

func NewInMemoryJournalRepository() *InMemoryJournalRepository {
	return &InMemoryJournalRepository{
		store: make(map[string]*domain.JournalEntry),
	}
}

func (r *InMemoryJournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok {
		return nil, domain.ErrJournalNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *InMemoryJournalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.JournalEntry{}
	for _, e := range r.store {
		if e.UserID == userID {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *InMemoryJournalRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[entry.ID]; !ok {
		return domain.ErrJournalNotFound
	}
	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryJournalRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrJournalNotFound
	}
	delete(r.store, id)
	return nil
}

type InMemoryUserRepository struct {
	byID map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}
