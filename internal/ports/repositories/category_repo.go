package repositories

import (
	"context"

	"notekeep/internal/domain/entities"
)

// CategoryRepository определяет интерфейс для работы с репозиторием категорий.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) (*entities.Category, error)

	GetByID(ctx context.Context, categoryID, userID string) (*entities.Category, error)

	List(ctx context.Context, userID, search string, limit, offset int) ([]*entities.Category, int, error)

	Update(ctx context.Context, category *entities.Category) (*entities.Category, error)

	Delete(ctx context.Context, categoryID, userID string) error

	ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error)

	CountNotes(ctx context.Context, categoryID, userID string) (int, error)
}
