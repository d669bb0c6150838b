package events

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	Events   []domain.StreakChanged
	Topics   []string
	Payloads [][]byte

	// PublishError, if set, is returned by PublishStreakChanged.
	PublishError error
	Closed       bool

	prefix string
}

func NewFakePublisher(prefix string) *FakePublisher {
	return &FakePublisher{prefix: prefix}
}

func (f *FakePublisher) PublishStreakChanged(ctx context.Context, event domain.StreakChanged) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}

	f.Events = append(f.Events, event)
	f.Topics = append(f.Topics, Topic(f.prefix, event.HabitID))
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Events)
}

// Snapshot returns a copy of the recorded events, safe to call while publishing.
func (f *FakePublisher) Snapshot() []domain.StreakChanged {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StreakChanged(nil), f.Events...)
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
