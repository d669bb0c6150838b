// Package streak turns a habit's per-day completion history into current and longest
// streak counts. Every function is pure: the reference "today" is always passed in.
package streak

import (
	"sort"
	"time"
)

// Entry is one day of a habit's history.
type Entry struct {
	Date      time.Time
	Completed bool
}

// RawEntry is the wire shape supplied by history providers.
type RawEntry struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type Stats struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

type dayEntry struct {
	day       int64
	completed bool
}

// sortedDays copies history into day numbers ordered by date. Entries sharing a date
// always put incomplete ones first so the result does not depend on input order.
func sortedDays(history []Entry, descending bool) []dayEntry {
	days := make([]dayEntry, len(history))
	for i, e := range history {
		days[i] = dayEntry{day: Day(e.Date), completed: e.Completed}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].day != days[j].day {
			if descending {
				return days[i].day > days[j].day
			}
			return days[i].day < days[j].day
		}
		return !days[i].completed && days[j].completed
	})

	return days
}

// CurrentStreak counts consecutive completed days ending at today. The walk expects
// exactly one entry per day going backward from today and stops at the first entry
// that is not the next expected day or is not completed.
func CurrentStreak(history []Entry, today time.Time) int {
	anchor := Day(today)
	streak := 0

	for _, e := range sortedDays(history, true) {
		gap := anchor - e.day

		if streak > 0 && gap == int64(streak-1) && e.completed {
			// duplicate of the day just counted
			continue
		}
		if gap != int64(streak) || !e.completed {
			break
		}
		streak++
	}

	return streak
}

// LongestStreak returns the longest run of consecutive completed days in history.
// It does not depend on today.
func LongestStreak(history []Entry) int {
	if len(history) == 0 {
		return 0
	}

	days := sortedDays(history, false)

	current, longest := 0, 0
	for i, e := range days {
		if !e.completed {
			current = 0
			continue
		}

		if i == 0 {
			current, longest = 1, 1
			continue
		}

		switch gap := e.day - days[i-1].day; {
		case gap == 1:
			current++
		case gap == 0:
		default:
			current = 1
		}

		if current > longest {
			longest = current
		}
	}

	return longest
}

// Compute evaluates both streaks against a single snapshot of today.
func Compute(history []Entry, today time.Time) Stats {
	return Stats{
		Current: CurrentStreak(history, today),
		Longest: LongestStreak(history),
	}
}

// ComputeRaw parses a wire feed in loc and evaluates it against today.
func ComputeRaw(raw []RawEntry, today time.Time, loc *time.Location) (Stats, error) {
	entries, err := FromRaw(raw, loc)
	if err != nil {
		return Stats{}, err
	}
	if loc != nil {
		today = today.In(loc)
	}
	return Compute(entries, today), nil
}
