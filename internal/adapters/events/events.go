// Package events publishes streak changes to an MQTT broker so other processes
// (notifiers, dashboards) can react without polling the API.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const DefaultTopicPrefix = "kanso/streaks"

// Publisher sends streak events to the broker.
type Publisher interface {
	PublishStreakChanged(ctx context.Context, event domain.StreakChanged) error
	Close() error
}

// Payload is the JSON body of a streak message.
type Payload struct {
	Streak StreakPayload `json:"streak"`
}

type StreakPayload struct {
	HabitID       string `json:"habit_id"`
	UserID        string `json:"user_id"`
	HabitName     string `json:"habit_name"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	ComputedAt    string `json:"computed_at"`
}

func FormatPayload(event domain.StreakChanged) ([]byte, error) {
	return json.Marshal(Payload{
		Streak: StreakPayload{
			HabitID:       event.HabitID,
			UserID:        event.UserID,
			HabitName:     event.HabitName,
			CurrentStreak: event.CurrentStreak,
			LongestStreak: event.LongestStreak,
			ComputedAt:    event.ComputedAt.UTC().Format(time.RFC3339),
		},
	})
}

// Topic returns "<prefix>/<habitID>".
func Topic(prefix, habitID string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/" + habitID
}
