package repository

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresJournalRepository_Integration(t *testing.T) {
	db := setupTestDB(t, "pgx")
	repo := NewPostgresJournalRepository(db)
	ctx := context.Background()

	userID := createUserFixture(t, db, "journal@kanso.app")

	entry, err := domain.NewJournalEntry(userID, "Gratitude", "Sunny morning.", "What went well today?")
	require.NoError(t, err)

	t.Run("Create and Get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, entry))

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sunny morning.", got.Content)
		require.NotNil(t, got.Prompt)
		assert.Equal(t, "What went well today?", *got.Prompt)
	})

	t.Run("Update", func(t *testing.T) {
		require.NoError(t, entry.Update("Gratitude", "Rainy, still fine."))
		require.NoError(t, repo.Update(ctx, entry))

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rainy, still fine.", got.Content)

		ghost := *entry
		ghost.ID = uuid.NewString()
		assert.ErrorIs(t, repo.Update(ctx, &ghost), domain.ErrJournalNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other, err := domain.NewJournalEntry(userID, "", "Free-form note", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, other))

		list, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, entry.ID))

		_, err := repo.GetByID(ctx, entry.ID)
		assert.ErrorIs(t, err, domain.ErrJournalNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, entry.ID), domain.ErrJournalNotFound)
	})
}
