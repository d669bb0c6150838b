package events

import (
	"context"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStreakChanged(ctx context.Context, event domain.StreakChanged) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
