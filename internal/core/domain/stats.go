package domain

import "time"

type WeeklyStats struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string  `json:"habit_id"`
	HabitName      string  `json:"habit_name"`
	Colour         string  `json:"colour"`
	HabitType      string  `json:"habit_type"`
	CompletionRate float64 `json:"completion_rate"`
	DaysCompleted  int     `json:"days_completed"`
	DailyProgress  []bool  `json:"daily_progress"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// StreakChanged is emitted whenever the stored streaks of a habit change.
type StreakChanged struct {
	HabitID       string    `json:"habit_id"`
	UserID        string    `json:"user_id"`
	HabitName     string    `json:"habit_name"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	ComputedAt    time.Time `json:"computed_at"`
}
