package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var _ domain.HistoryRepository = (*PostgresHistoryRepository)(nil)

const dateLayout = "2006-01-02"

// PostgresHistoryRepository stores one row per (habit, day). Days travel as
// yyyy-mm-dd strings cast to DATE so no driver timezone conversion applies.
type PostgresHistoryRepository struct {
	db *sqlx.DB
}

func NewPostgresHistoryRepository(db *sqlx.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

func (r *PostgresHistoryRepository) Upsert(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO habit_history (id, habit_id, user_id, entry_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, NOW(), NOW())
		ON CONFLICT (habit_id, entry_date)
		DO UPDATE SET completed = EXCLUDED.completed, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.HabitID, entry.UserID, entry.DateString(), entry.Completed,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: referenced habit or user does not exist", domain.ErrInvalidEntry)
		}
		return fmt.Errorf("history upsert failed: %w", err)
	}

	return nil
}

func (r *PostgresHistoryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HistoryEntry, error) {
	query := `
		SELECT id, habit_id, user_id, entry_date, completed, created_at, updated_at
		FROM habit_history
		WHERE habit_id = $1
		ORDER BY entry_date ASC`

	entries := []*domain.HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, habitID); err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	return entries, nil
}

func (r *PostgresHistoryRepository) ListByHabitIDs(ctx context.Context, habitIDs []string, from, to time.Time) ([]*domain.HistoryEntry, error) {
	entries := []*domain.HistoryEntry{}
	if len(habitIDs) == 0 {
		return entries, nil
	}

	query := `
		SELECT id, habit_id, user_id, entry_date, completed, created_at, updated_at
		FROM habit_history
		WHERE habit_id = ANY($1::text[])
		  AND entry_date >= $2::date
		  AND entry_date <= $3::date
		ORDER BY entry_date ASC, habit_id ASC`

	err := r.db.SelectContext(ctx, &entries, query,
		pq.Array(habitIDs), from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("history range query failed: %w", err)
	}
	return entries, nil
}
