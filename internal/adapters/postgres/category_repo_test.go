package postgres_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/adapters/postgres"
	"notekeep/internal/domain/entities"
)

var categoryColumnNames = []string{"id", "user_id", "name", "notes_count", "created_at", "updated_at"}

func categoryRow(category entities.Category) *pgxmock.Rows {
	return pgxmock.NewRows(categoryColumnNames).AddRow(
		category.ID, category.UserID, category.Name, category.NotesCount,
		category.CreatedAt, category.UpdatedAt,
	)
}

func TestCategoryRepository_Create(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("successful creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "user_id", "name", "created_at", "updated_at"}).
			AddRow("cat-1", "user-1", "Work", now, now)
		mock.ExpectQuery("INSERT INTO categories").
			WithArgs("user-1", "Work").
			WillReturnRows(rows)

		repo := postgres.NewCategoryRepository(mock)
		created, err := repo.Create(ctx, &entities.Category{UserID: "user-1", Name: "Work"})

		require.NoError(t, err)
		assert.Equal(t, "cat-1", created.ID)
		assert.Equal(t, "Work", created.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO categories").
			WithArgs("user-1", "Work").
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewCategoryRepository(mock)
		created, err := repo.Create(ctx, &entities.Category{UserID: "user-1", Name: "Work"})

		require.Error(t, err)
		assert.Nil(t, created)
		assert.Contains(t, err.Error(), "error creating category")
	})
}

func TestCategoryRepository_GetByID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	testCategory := entities.Category{
		ID:         "cat-1",
		UserID:     "user-1",
		Name:       "Work",
		NotesCount: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	t.Run("successful category acquisition", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT").
			WithArgs(testCategory.ID, testCategory.UserID).
			WillReturnRows(categoryRow(testCategory))

		repo := postgres.NewCategoryRepository(mock)
		category, err := repo.GetByID(ctx, testCategory.ID, testCategory.UserID)

		require.NoError(t, err)
		assert.Equal(t, 3, category.NotesCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the category was not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT").
			WithArgs("missing", "user-1").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewCategoryRepository(mock)
		category, err := repo.GetByID(ctx, "missing", "user-1")

		require.Nil(t, category)
		require.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}

func TestCategoryRepository_List(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("successful listing ordered by name", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

		rows := pgxmock.NewRows(categoryColumnNames).
			AddRow("cat-1", "user-1", "Home", 1, now, now).
			AddRow("cat-2", "user-1", "Work", 5, now, now)
		mock.ExpectQuery("ORDER BY c.name").
			WithArgs("user-1", 20, 0).
			WillReturnRows(rows)

		repo := postgres.NewCategoryRepository(mock)
		categories, total, err := repo.List(ctx, "user-1", "", 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, categories, 2)
		assert.Equal(t, "Home", categories[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search filter passes pattern", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("user-1", "%wo%").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("ORDER BY c.name").
			WithArgs("user-1", "%wo%", 20, 0).
			WillReturnRows(pgxmock.NewRows(categoryColumnNames).
				AddRow("cat-2", "user-1", "Work", 5, now, now))

		repo := postgres.NewCategoryRepository(mock)
		categories, total, err := repo.List(ctx, "user-1", "wo", 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, categories, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_Update(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("successful rename", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE categories").
			WithArgs("cat-1", "user-1", "Renamed", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("SELECT").
			WithArgs("cat-1", "user-1").
			WillReturnRows(pgxmock.NewRows(categoryColumnNames).
				AddRow("cat-1", "user-1", "Renamed", 0, now, now))

		repo := postgres.NewCategoryRepository(mock)
		updated, err := repo.Update(ctx, &entities.Category{ID: "cat-1", UserID: "user-1", Name: "Renamed"})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the category was not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE categories").
			WithArgs("missing", "user-1", "Renamed", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewCategoryRepository(mock)
		updated, err := repo.Update(ctx, &entities.Category{ID: "missing", UserID: "user-1", Name: "Renamed"})

		require.Nil(t, updated)
		require.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}

func TestCategoryRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("successful deletion", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM categories").
			WithArgs("cat-1", "user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewCategoryRepository(mock)
		err = repo.Delete(ctx, "cat-1", "user-1")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the category was not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM categories").
			WithArgs("missing", "user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewCategoryRepository(mock)
		err = repo.Delete(ctx, "missing", "user-1")

		require.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}

func TestCategoryRepository_ExistsByName(t *testing.T) {
	ctx := testContext(t)

	t.Run("name is taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-1", "Work", "").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		repo := postgres.NewCategoryRepository(mock)
		taken, err := repo.ExistsByName(ctx, "user-1", "Work", "")

		require.NoError(t, err)
		assert.True(t, taken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("name is free", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-1", "Free", "cat-1").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		repo := postgres.NewCategoryRepository(mock)
		taken, err := repo.ExistsByName(ctx, "user-1", "Free", "cat-1")

		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestCategoryRepository_CountNotes(t *testing.T) {
	ctx := testContext(t)

	t.Run("successful counting", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("cat-1", "user-1").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

		repo := postgres.NewCategoryRepository(mock)
		count, err := repo.CountNotes(ctx, "cat-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, 5, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
