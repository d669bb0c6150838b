package streak

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidHistoryEntry = errors.New("invalid history entry")

const secondsPerDay = 24 * 60 * 60

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Day is the number of calendar days elapsed since 1970-01-01 for the civil date of t
// in t's own location. Time of day is ignored.
func Day(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// Midnight returns the start of t's calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDay parses a date-only or timestamp string and returns midnight of its calendar
// day in loc. Date-only values are read as civil dates in loc; timestamps are converted
// into loc first.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidHistoryEntry)
	}

	for _, layout := range dayLayouts {
		var t time.Time
		var err error
		if layout == time.RFC3339 || layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return Midnight(t, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidHistoryEntry, value)
}

// FromRaw converts a wire feed into entries. It fails on the first unparseable date.
func FromRaw(raw []RawEntry, loc *time.Location) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		date, err := ParseDay(r.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, Entry{Date: date, Completed: r.Completed})
	}
	return entries, nil
}
