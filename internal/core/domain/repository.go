package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
	ErrUnauthorized  = errors.New("resource belongs to another user")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves an active habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all active habits of a user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies an existing habit. Implementations must reject stale versions with ErrHabitConflict.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] Returns only the deltas (changes) occurring after a specific date.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks stores the derived streak values without touching the version.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type HistoryRepository interface {
	// Upsert stores the entry for (habit, date), replacing the completed flag if the day already exists.
	// On return entry carries the persisted ID and timestamps.
	Upsert(ctx context.Context, entry *HistoryEntry) error

	// ListByHabitID returns the full history of a habit, oldest day first.
	ListByHabitID(ctx context.Context, habitID string) ([]*HistoryEntry, error)

	// ListByHabitIDs returns entries of the given habits within [from, to], both inclusive days.
	ListByHabitIDs(ctx context.Context, habitIDs []string, from, to time.Time) ([]*HistoryEntry, error)
}

type JournalRepository interface {
	Create(ctx context.Context, entry *JournalEntry) error
	GetByID(ctx context.Context, id string) (*JournalEntry, error)
	ListByUserID(ctx context.Context, userID string) ([]*JournalEntry, error)
	Update(ctx context.Context, entry *JournalEntry) error
	Delete(ctx context.Context, id string) error
}
