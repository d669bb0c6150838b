package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var _ domain.JournalRepository = (*PostgresJournalRepository)(nil)

type PostgresJournalRepository struct {
	db *sqlx.DB
}

func NewPostgresJournalRepository(db *sqlx.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{db: db}
}

func (r *PostgresJournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO journals (id, user_id, title, content, prompt, created_at, updated_at)
		VALUES (:id, :user_id, :title, :content, :prompt, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

func (r *PostgresJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, content, prompt, created_at, updated_at
		FROM journals WHERE id = $1`

	var entry domain.JournalEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJournalNotFound
		}
		return nil, fmt.Errorf("journal query failed: %w", err)
	}
	return &entry, nil
}

func (r *PostgresJournalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, content, prompt, created_at, updated_at
		FROM journals WHERE user_id = $1
		ORDER BY created_at DESC`

	entries := []*domain.JournalEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("journal list failed: %w", err)
	}
	return entries, nil
}

func (r *PostgresJournalRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		UPDATE journals
		SET title = :title, content = :content, updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("journal update failed: %w", err)
	}
	return expectOneRow(res, domain.ErrJournalNotFound)
}

func (r *PostgresJournalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("journal delete failed: %w", err)
	}
	return expectOneRow(res, domain.ErrJournalNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
