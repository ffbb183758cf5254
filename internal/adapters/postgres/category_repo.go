package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/repositories"
	"notekeep/pkg/logger"
)

// categoryColumns - колонки категории вместе с числом заметок.
const categoryColumns = `
        c.id, c.user_id, c.name,
        (SELECT COUNT(*) FROM notes n WHERE n.category_id = c.id),
        c.created_at, c.updated_at`

// CategoryRepository реализует интерфейс repositories.CategoryRepository для работы с Postgres.
type CategoryRepository struct {
	pool PgxPoolInterface
}

// NewCategoryRepository создает новый экземпляр репозитория категорий.
func NewCategoryRepository(pool PgxPoolInterface) repositories.CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create создает новую категорию.
func (r *CategoryRepository) Create(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "Create"))

	query := `
        INSERT INTO categories (user_id, name)
        VALUES ($1, $2)
        RETURNING id, user_id, name, created_at, updated_at
    `

	var created entities.Category
	err := r.pool.QueryRow(ctx, query,
		category.UserID,
		category.Name,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Name,
		&created.CreatedAt,
		&created.UpdatedAt,
	)

	if err != nil {
		log.Error(ctx, "error creating category", zap.Error(err))
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	return &created, nil
}

// GetByID находит категорию пользователя по ID.
func (r *CategoryRepository) GetByID(ctx context.Context, categoryID, userID string) (*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "GetByID"))

	query := `
        SELECT` + categoryColumns + `
        FROM categories c
        WHERE c.id = $1 AND c.user_id = $2
    `

	category, err := scanCategory(r.pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "category not found", zap.String("categoryID", categoryID))
			return nil, entities.ErrCategoryNotFound
		}
		log.Error(ctx, "error finding category by id", zap.Error(err))
		return nil, fmt.Errorf("error querying category by id: %w", err)
	}

	return category, nil
}

// List возвращает страницу категорий пользователя и общее число строк.
// Категории упорядочены по имени.
func (r *CategoryRepository) List(ctx context.Context, userID, search string, limit, offset int) ([]*entities.Category, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "List"))

	where := "c.user_id = $1"
	args := []interface{}{userID}

	if search != "" {
		args = append(args, "%"+search+"%")
		where += " AND c.name ILIKE $2"
	}

	countQuery := `
        SELECT COUNT(*)
        FROM categories c
        WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error(ctx, "error counting categories", zap.Error(err))
		return nil, 0, fmt.Errorf("error counting categories: %w", err)
	}

	query := `
        SELECT` + categoryColumns + `
        FROM categories c
        WHERE ` + where + `
        ORDER BY c.name
        LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error querying categories", zap.Error(err))
		return nil, 0, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	var categories []*entities.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error(ctx, "error scanning category row", zap.Error(err))
			return nil, 0, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		log.Error(ctx, "error iterating category rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, total, nil
}

// Update переименовывает категорию пользователя.
func (r *CategoryRepository) Update(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "Update"))

	query := `
        UPDATE categories
        SET name = $3, updated_at = $4
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		time.Now().UTC(),
	)

	if err != nil {
		log.Error(ctx, "error updating category", zap.Error(err))
		return nil, fmt.Errorf("error updating category: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "category not found for update", zap.String("categoryID", category.ID))
		return nil, entities.ErrCategoryNotFound
	}

	return r.GetByID(ctx, category.ID, category.UserID)
}

// Delete удаляет категорию пользователя.
func (r *CategoryRepository) Delete(ctx context.Context, categoryID, userID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "Delete"))

	query := `
        DELETE FROM categories
        WHERE id = $1 AND user_id = $2
    `

	result, err := r.pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		log.Error(ctx, "error deleting category", zap.Error(err))
		return fmt.Errorf("error deleting category: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "category not found for deletion", zap.String("categoryID", categoryID))
		return entities.ErrCategoryNotFound
	}

	return nil
}

// ExistsByName сообщает, занято ли имя категории у пользователя.
// Сравнение имен регистронезависимое. Категория excludeID исключается
// из проверки, что позволяет переименовывать категорию в то же имя.
func (r *CategoryRepository) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "ExistsByName"))

	query := `
        SELECT EXISTS (
            SELECT 1 FROM categories
            WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND id::text <> $3
        )
    `

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		log.Error(ctx, "error checking category name", zap.Error(err))
		return false, fmt.Errorf("error checking category name: %w", err)
	}

	return exists, nil
}

// CountNotes возвращает количество заметок в категории.
func (r *CategoryRepository) CountNotes(ctx context.Context, categoryID, userID string) (int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "category"), zap.String("method", "CountNotes"))

	query := `
        SELECT COUNT(*)
        FROM notes
        WHERE category_id = $1 AND user_id = $2
    `

	var count int
	if err := r.pool.QueryRow(ctx, query, categoryID, userID).Scan(&count); err != nil {
		log.Error(ctx, "error counting category notes", zap.Error(err))
		return 0, fmt.Errorf("error counting category notes: %w", err)
	}

	return count, nil
}

// scanCategory читает одну строку категории вместе с числом заметок.
func scanCategory(row pgx.Row) (*entities.Category, error) {
	var category entities.Category
	err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.NotesCount,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
