package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrJournalNotFound     = errors.New("journal entry not found")
	ErrJournalContentEmpty = errors.New("journal content cannot be empty")
	ErrJournalTitleTooLong = errors.New("journal title is too long (max 150 chars)")
	ErrJournalTooLong      = errors.New("journal content is too long (max 20000 chars)")
)

const (
	MaxJournalTitleLen   = 150
	MaxJournalContentLen = 20000
)

// JournalEntry is a free-form entry, or a prompted one when Prompt is set.
type JournalEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Prompt    *string   `json:"prompt,omitempty" db:"prompt"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validateJournal(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if content == "" {
		return "", "", ErrJournalContentEmpty
	}
	if utf8.RuneCountInString(title) > MaxJournalTitleLen {
		return "", "", ErrJournalTitleTooLong
	}
	if utf8.RuneCountInString(content) > MaxJournalContentLen {
		return "", "", ErrJournalTooLong
	}
	return title, content, nil
}

func NewJournalEntry(userID, title, content, prompt string) (*JournalEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	title, content, err := validateJournal(title, content)
	if err != nil {
		return nil, err
	}

	var promptPtr *string
	if p := strings.TrimSpace(prompt); p != "" {
		promptPtr = &p
	}

	now := time.Now().UTC()
	return &JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Prompt:    promptPtr,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (j *JournalEntry) Update(title, content string) error {
	title, content, err := validateJournal(title, content)
	if err != nil {
		return err
	}

	j.Title = title
	j.Content = content
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (j *JournalEntry) IsPrompted() bool {
	return j.Prompt != nil
}
