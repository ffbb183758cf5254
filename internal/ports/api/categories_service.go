package api

import (
	"context"

	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
)

// CategoriesUseCase определяет интерфейс сценариев работы с категориями.
type CategoriesUseCase interface {
	CreateCategory(ctx context.Context, userID string, req *dto.CreateCategoryRequest) (*entities.Category, error)

	GetCategory(ctx context.Context, userID, categoryID string) (*entities.Category, error)

	ListCategories(ctx context.Context, userID string, query *dto.ListCategoriesQuery) (*dto.ListCategoriesResponse, error)

	UpdateCategory(ctx context.Context, userID, categoryID string, req *dto.UpdateCategoryRequest) (*entities.Category, error)

	// DeleteCategory удаляет категорию. При force=false удаление категории,
	// на которую ссылаются заметки, завершается entities.ErrCategoryNotEmpty;
	// при force=true заметки сначала отвязываются от категории.
	DeleteCategory(ctx context.Context, userID, categoryID string, force bool) error

	ListCategoryNotes(ctx context.Context, userID, categoryID string, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error)
}
