package domain

import "time"

// Clock returns the current instant. Services take one so "today" can be pinned in tests.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
