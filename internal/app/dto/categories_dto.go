package dto

import (
	"time"

	"notekeep/internal/domain/entities"
)

// CreateCategoryRequest содержит данные для создания категории.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateCategoryRequest содержит данные для переименования категории.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListCategoriesQuery содержит параметры выборки списка категорий.
type ListCategoriesQuery struct {
	Page     int
	PageSize int
	Search   string
}

// Category представляет категорию в ответе API.
type Category struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	NotesCount int       `json:"notes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryResponse содержит информацию о категории для ответа.
type CategoryResponse struct {
	Category *Category `json:"category"`
}

// ListCategoriesResponse содержит список категорий и информацию о пагинации.
type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// CategoryFromEntity преобразует доменную категорию в представление API.
func CategoryFromEntity(category *entities.Category) *Category {
	if category == nil {
		return nil
	}
	return &Category{
		ID:         category.ID,
		Name:       category.Name,
		NotesCount: category.NotesCount,
		CreatedAt:  category.CreatedAt,
		UpdatedAt:  category.UpdatedAt,
	}
}

// CategoriesFromEntities преобразует список доменных категорий в представление API.
func CategoriesFromEntities(categories []*entities.Category) []*Category {
	result := make([]*Category, len(categories))
	for i, category := range categories {
		result[i] = CategoryFromEntity(category)
	}
	return result
}
