package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

var (
	ErrInvalidEntry = errors.New("invalid habit history entry")
)

// HistoryEntry records whether a habit was completed on one calendar day.
// Date is always midnight of that day.
type HistoryEntry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Date      time.Time `json:"date" db:"entry_date"`
	Completed bool      `json:"completed" db:"completed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewHistoryEntry(habitID, userID string, date time.Time, completed bool, loc *time.Location) *HistoryEntry {
	now := time.Now().UTC()

	return &HistoryEntry{
		HabitID:   habitID,
		UserID:    userID,
		Date:      streak.Midnight(date, loc),
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *HistoryEntry) Validate() error {
	if strings.TrimSpace(e.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	return nil
}

// DateString is the yyyy-mm-dd form used on the wire.
func (e *HistoryEntry) DateString() string {
	return e.Date.Format("2006-01-02")
}

// ToStreakEntries converts stored history into the streak engine input.
func ToStreakEntries(entries []*HistoryEntry) []streak.Entry {
	out := make([]streak.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, streak.Entry{Date: e.Date, Completed: e.Completed})
	}
	return out
}
