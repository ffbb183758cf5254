package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/api"
	"notekeep/internal/ports/cache"
	"notekeep/internal/ports/repositories"
	"notekeep/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodCreateCategory    = "CreateCategory"
	methodGetCategory       = "GetCategory"
	methodListCategories    = "ListCategories"
	methodUpdateCategory    = "UpdateCategory"
	methodDeleteCategory    = "DeleteCategory"
	methodListCategoryNotes = "ListCategoryNotes"

	msgCreatingCategory     = "creating category"
	msgCategoryCreated      = "category created"
	msgFetchingCategory     = "fetching category"
	msgListingCategories    = "listing categories"
	msgUpdatingCategory     = "updating category"
	msgCategoryUpdated      = "category updated"
	msgDeletingCategory     = "deleting category"
	msgCategoryDeleted      = "category deleted"
	msgCategoryHasNotes     = "category delete blocked: notes attached"
	msgNotesDetached        = "notes detached from category"
	msgListingCategoryNotes = "listing notes in category"
	msgErrCreatingCategory  = "failed to create category"
	msgErrListingCategories = "failed to list categories"
	msgErrUpdatingCategory  = "failed to update category"
	msgErrDeletingCategory  = "failed to delete category"

	errCtxValidatingCategory = "validating category"
	errCtxCheckingName       = "checking category name"
	errCtxNameTaken          = "category name taken"
	errCtxCreatingCategory   = "creating category"
	errCtxFetchingCategory   = "fetching category"
	errCtxListingCategories  = "listing categories"
	errCtxUpdatingCategory   = "updating category"
	errCtxCountingNotes      = "counting category notes"
	errCtxCategoryNotEmpty   = "category not empty"
	errCtxDetachingNotes     = "detaching notes"
	errCtxDeletingCategory   = "deleting category"
)

// CategoriesUseCaseImpl реализует интерфейс api.CategoriesUseCase.
type CategoriesUseCaseImpl struct {
	categoryRepo repositories.CategoryRepository
	noteRepo     repositories.NoteRepository
	cache        cache.Cache
}

// NewCategoriesUseCase создает новый экземпляр сценариев работы с категориями.
// Кэш может быть nil.
func NewCategoriesUseCase(
	categoryRepo repositories.CategoryRepository,
	noteRepo repositories.NoteRepository,
	categoryCache cache.Cache,
) api.CategoriesUseCase {
	return &CategoriesUseCaseImpl{
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
		cache:        categoryCache,
	}
}

// CreateCategory создает новую категорию пользователя.
func (c *CategoriesUseCaseImpl) CreateCategory(ctx context.Context, userID string, req *dto.CreateCategoryRequest) (*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateCategory), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingCategory)

	name := strings.TrimSpace(req.Name)
	if err := validateCategoryName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingCategory, err)
	}

	if err := c.checkNameUnique(ctx, userID, name, ""); err != nil {
		return nil, err
	}

	created, err := c.categoryRepo.Create(ctx, &entities.Category{
		UserID: userID,
		Name:   name,
	})
	if err != nil {
		log.Error(ctx, msgErrCreatingCategory, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingCategory, err)
	}

	c.invalidateUserStats(ctx, userID)
	log.Info(ctx, msgCategoryCreated, zap.String("categoryID", created.ID))
	return created, nil
}

// GetCategory возвращает категорию пользователя по идентификатору.
func (c *CategoriesUseCaseImpl) GetCategory(ctx context.Context, userID, categoryID string) (*entities.Category, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGetCategory),
		zap.String("userID", userID),
		zap.String("categoryID", categoryID),
	)
	log.Debug(ctx, msgFetchingCategory)

	category, err := c.categoryRepo.GetByID(ctx, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingCategory, err)
	}
	return category, nil
}

// ListCategories возвращает страницу категорий пользователя.
func (c *CategoriesUseCaseImpl) ListCategories(ctx context.Context, userID string, query *dto.ListCategoriesQuery) (*dto.ListCategoriesResponse, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListCategories), zap.String("userID", userID))
	log.Debug(ctx, msgListingCategories)

	page, pageSize, err := normalizePagination(query.Page, query.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidPagination, err)
	}

	categories, total, err := c.categoryRepo.List(ctx, userID, strings.TrimSpace(query.Search), pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error(ctx, msgErrListingCategories, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingCategories, err)
	}

	return &dto.ListCategoriesResponse{
		Categories: dto.CategoriesFromEntities(categories),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	}, nil
}

// UpdateCategory переименовывает категорию пользователя.
func (c *CategoriesUseCaseImpl) UpdateCategory(ctx context.Context, userID, categoryID string, req *dto.UpdateCategoryRequest) (*entities.Category, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodUpdateCategory),
		zap.String("userID", userID),
		zap.String("categoryID", categoryID),
	)
	log.Debug(ctx, msgUpdatingCategory)

	category, err := c.categoryRepo.GetByID(ctx, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingCategory, err)
	}

	name := strings.TrimSpace(req.Name)
	if err := validateCategoryName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingCategory, err)
	}

	if err := c.checkNameUnique(ctx, userID, name, categoryID); err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = time.Now()

	updated, err := c.categoryRepo.Update(ctx, category)
	if err != nil {
		log.Error(ctx, msgErrUpdatingCategory, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingCategory, err)
	}

	log.Info(ctx, msgCategoryUpdated)
	return updated, nil
}

// DeleteCategory удаляет категорию пользователя. Если на категорию
// ссылаются заметки, удаление без force завершается
// entities.ErrCategoryNotEmpty; с force заметки сначала отвязываются.
func (c *CategoriesUseCaseImpl) DeleteCategory(ctx context.Context, userID, categoryID string, force bool) error {
	log := logger.Log(ctx).With(
		zap.String("method", methodDeleteCategory),
		zap.String("userID", userID),
		zap.String("categoryID", categoryID),
		zap.Bool("force", force),
	)
	log.Debug(ctx, msgDeletingCategory)

	if _, err := c.categoryRepo.GetByID(ctx, categoryID, userID); err != nil {
		return fmt.Errorf("%s: %w", errCtxFetchingCategory, err)
	}

	count, err := c.categoryRepo.CountNotes(ctx, categoryID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxCountingNotes, err)
	}

	if count > 0 {
		if !force {
			log.Debug(ctx, msgCategoryHasNotes, zap.Int("notesCount", count))
			return fmt.Errorf("%s: %w", errCtxCategoryNotEmpty, entities.ErrCategoryNotEmpty)
		}
		detached, err := c.noteRepo.DetachCategory(ctx, categoryID, userID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxDetachingNotes, err)
		}
		log.Info(ctx, msgNotesDetached, zap.Int64("detached", detached))
	}

	if err := c.categoryRepo.Delete(ctx, categoryID, userID); err != nil {
		log.Error(ctx, msgErrDeletingCategory, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingCategory, err)
	}

	c.invalidateUserStats(ctx, userID)
	log.Info(ctx, msgCategoryDeleted)
	return nil
}

// ListCategoryNotes возвращает страницу заметок, принадлежащих категории.
func (c *CategoriesUseCaseImpl) ListCategoryNotes(ctx context.Context, userID, categoryID string, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodListCategoryNotes),
		zap.String("userID", userID),
		zap.String("categoryID", categoryID),
	)
	log.Debug(ctx, msgListingCategoryNotes)

	if _, err := c.categoryRepo.GetByID(ctx, categoryID, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingCategory, err)
	}

	page, pageSize, err := normalizePagination(query.Page, query.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidPagination, err)
	}

	ordering, err := normalizeOrdering(query.Ordering)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidOrdering, err)
	}

	filter := &repositories.NoteFilter{
		Search:     strings.TrimSpace(query.Search),
		CategoryID: &categoryID,
		IsPinned:   query.IsPinned,
		Ordering:   ordering,
	}

	notes, total, err := c.noteRepo.List(ctx, userID, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error(ctx, msgErrListingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return &dto.ListNotesResponse{
		Notes:      dto.NotesFromEntities(notes, time.Now()),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	}, nil
}

// checkNameUnique проверяет уникальность имени категории среди категорий пользователя.
func (c *CategoriesUseCaseImpl) checkNameUnique(ctx context.Context, userID, name, excludeID string) error {
	taken, err := c.categoryRepo.ExistsByName(ctx, userID, name, excludeID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxCheckingName, err)
	}
	if taken {
		return fmt.Errorf("%s: %w", errCtxNameTaken, entities.ErrCategoryNameTaken)
	}
	return nil
}

// invalidateUserStats удаляет из кэша статистику пользователя.
func (c *CategoriesUseCaseImpl) invalidateUserStats(ctx context.Context, userID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheDelete, zap.Error(err))
	}
}

// validateCategoryName проверяет имя категории.
func validateCategoryName(name string) error {
	if name == "" {
		return entities.ErrEmptyCategoryName
	}
	if len([]rune(name)) > entities.MaxCategoryNameLength {
		return entities.ErrCategoryNameTooLong
	}
	return nil
}
