package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type JournalService struct {
	repo domain.JournalRepository
}

func NewJournalService(repo domain.JournalRepository) *JournalService {
	return &JournalService{repo: repo}
}

type CreateJournalInput struct {
	UserID  string
	Title   string
	Content string
	Prompt  string
}

type UpdateJournalInput struct {
	ID      string
	UserID  string
	Title   string
	Content string
}

func (s *JournalService) Create(ctx context.Context, input CreateJournalInput) (*domain.JournalEntry, error) {
	entry, err := domain.NewJournalEntry(input.UserID, input.Title, input.Content, input.Prompt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) ListByUserID(ctx context.Context, userID string) ([]*domain.JournalEntry, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetByID hides entries of other users behind ErrJournalNotFound.
func (s *JournalService) GetByID(ctx context.Context, id, userID string) (*domain.JournalEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrJournalNotFound
	}
	return entry, nil
}

func (s *JournalService) Update(ctx context.Context, input UpdateJournalInput) (*domain.JournalEntry, error) {
	entry, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := entry.Update(input.Title, input.Content); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
