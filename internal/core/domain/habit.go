package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty       = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong     = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong     = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID   = errors.New("invalid user id")
	ErrInvalidColour        = errors.New("invalid colour format (must be #RRGGBB)")
	ErrInvalidHabitType     = errors.New("invalid habit type (must be standard or trigger-action)")
	ErrTriggerActionMissing = errors.New("trigger-action habits need both a trigger and an action")
	ErrTriggerTooLong       = errors.New("trigger or action is too long (max 200 chars)")
	ErrInvalidStreak        = errors.New("invalid streak values (must be non-negative, current <= longest)")
)

var colourRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	HabitTypeStandard      = "standard"
	HabitTypeTriggerAction = "trigger-action"
	DefaultColour          = "#4A90E2"
	MaxHabitNameLen        = 100
	MaxDescLen             = 500
	MaxTriggerLen          = 200
)

// Habit is a tracked habit. The streak columns hold the worker's last snapshot;
// services overwrite them with values computed as of today before serving.
type Habit struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description,omitempty" db:"description"`
	Colour        string     `json:"colour" db:"colour"`
	HabitType     string     `json:"habit_type" db:"habit_type"`
	Trigger       *string    `json:"trigger,omitempty" db:"trigger"`
	Action        *string    `json:"action,omitempty" db:"action"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	Version       int        `json:"version" db:"version"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

type HabitParams struct {
	Name        string
	Description string
	Colour      string
	HabitType   string
	Trigger     string
	Action      string
}

type validHabit struct {
	name, desc, colour, hType string
	trigger, action           *string
}

func validateAndNormalize(p HabitParams) (validHabit, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return validHabit{}, ErrHabitNameEmpty
	}
	if len(name) > MaxHabitNameLen {
		return validHabit{}, ErrHabitNameTooLong
	}

	desc := strings.TrimSpace(p.Description)
	if len(desc) > MaxDescLen {
		return validHabit{}, ErrHabitDescTooLong
	}

	colour := strings.TrimSpace(p.Colour)
	if colour == "" {
		colour = DefaultColour
	} else if !colourRegex.MatchString(colour) {
		return validHabit{}, ErrInvalidColour
	}

	hType := p.HabitType
	if hType == "" {
		hType = HabitTypeStandard
	}

	v := validHabit{name: name, desc: desc, colour: colour, hType: hType}

	switch hType {
	case HabitTypeStandard:
	case HabitTypeTriggerAction:
		trigger := strings.TrimSpace(p.Trigger)
		action := strings.TrimSpace(p.Action)
		if trigger == "" || action == "" {
			return validHabit{}, ErrTriggerActionMissing
		}
		if len(trigger) > MaxTriggerLen || len(action) > MaxTriggerLen {
			return validHabit{}, ErrTriggerTooLong
		}
		v.trigger = &trigger
		v.action = &action
	default:
		return validHabit{}, ErrInvalidHabitType
	}

	return v, nil
}

func NewHabit(userID string, p HabitParams) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	v, err := validateAndNormalize(p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        v.name,
		Description: v.desc,
		Colour:      v.colour,
		HabitType:   v.hType,
		Trigger:     v.trigger,
		Action:      v.action,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(p HabitParams) error {
	v, err := validateAndNormalize(p)
	if err != nil {
		return err
	}

	h.Name = v.name
	h.Description = v.desc
	h.Colour = v.colour
	h.HabitType = v.hType
	h.Trigger = v.trigger
	h.Action = v.action
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// Params returns the editable fields of h, used to merge partial updates.
func (h *Habit) Params() HabitParams {
	p := HabitParams{
		Name:        h.Name,
		Description: h.Description,
		Colour:      h.Colour,
		HabitType:   h.HabitType,
	}
	if h.Trigger != nil {
		p.Trigger = *h.Trigger
	}
	if h.Action != nil {
		p.Action = *h.Action
	}
	return p
}

// ValidateStreaks checks a streak pair before it is stored.
func ValidateStreaks(current, longest int) error {
	if current < 0 || longest < 0 || current > longest {
		return ErrInvalidStreak
	}
	return nil
}

// UpdateStreak stores the worker's snapshot; readers recompute it on demand.
func (h *Habit) UpdateStreak(current, longest int) error {
	if err := ValidateStreaks(current, longest); err != nil {
		return err
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
	return nil
}
