package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type HabitService struct {
	repo    domain.HabitRepository
	streaks *StreakReader
}

// NewHabitService serves habits with streaks computed by streaks. A nil reader
// leaves the worker's snapshot in place.
func NewHabitService(repo domain.HabitRepository, streaks *StreakReader) *HabitService {
	return &HabitService{
		repo:    repo,
		streaks: streaks,
	}
}

type CreateHabitInput struct {
	UserID      string
	Name        string
	Description string
	Colour      string
	HabitType   string
	Trigger     string
	Action      string
}

type UpdateHabitInput struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Colour      string
	HabitType   string
	Trigger     string
	Action      string
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, domain.HabitParams{
		Name:        input.Name,
		Description: input.Description,
		Colour:      input.Colour,
		HabitType:   input.HabitType,
		Trigger:     input.Trigger,
		Action:      input.Action,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, habits...); err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	habits, err := s.repo.GetChanges(ctx, userID, lastSync)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, habits...); err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *HabitService) refresh(ctx context.Context, habits ...*domain.Habit) error {
	if s.streaks == nil {
		return nil
	}
	return s.streaks.Refresh(ctx, habits...)
}

// Update applies a partial update: empty fields keep their stored value.
func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	current := habit.Params()
	err = habit.Update(domain.HabitParams{
		Name:        mergeString(input.Name, current.Name),
		Description: mergeString(input.Description, current.Description),
		Colour:      mergeString(input.Colour, current.Colour),
		HabitType:   mergeString(input.HabitType, current.HabitType),
		Trigger:     mergeString(input.Trigger, current.Trigger),
		Action:      mergeString(input.Action, current.Action),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	if err := s.refresh(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
