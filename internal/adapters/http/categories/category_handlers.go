// Package categories содержит HTTP обработчики для работы с категориями.
package categories

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeep/internal/adapters/http/httperr"
	"notekeep/internal/adapters/http/middleware"
	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/api"
	"notekeep/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreateCategory = "categories handler: create category"
	LogHandlerGetCategory    = "categories handler: get category"
	LogHandlerListCategories = "categories handler: list categories"
	LogHandlerUpdateCategory = "categories handler: update category"
	LogHandlerDeleteCategory = "categories handler: delete category"
	LogHandlerCategoryNotes  = "categories handler: list category notes"

	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidQueryParams   = "invalid query parameters"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики категорий.
type Handler struct {
	categoriesUseCase api.CategoriesUseCase
}

// NewHandler создает новый экземпляр обработчика категорий.
func NewHandler(categoriesUseCase api.CategoriesUseCase) *Handler {
	return &Handler{
		categoriesUseCase: categoriesUseCase,
	}
}

func parsePagination(ctx fiber.Ctx) (page, pageSize int, err error) {
	if raw := ctx.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing page: %w", err)
		}
	}
	if raw := ctx.Query("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing page_size: %w", err)
		}
	}
	return page, pageSize, nil
}

func (h *Handler) sendCategory(ctx fiber.Ctx, statusCode int, category *entities.Category) error {
	if err := ctx.Status(statusCode).JSON(dto.CategoryResponse{
		Category: dto.CategoryFromEntity(category),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// CreateCategory обрабатывает запрос на создание категории.
func (h *Handler) CreateCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateCategory)

	var req dto.CreateCategoryRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	category, err := h.categoriesUseCase.CreateCategory(requestCtx, middleware.UserID(ctx), &req)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendCategory(ctx, http.StatusCreated, category)
}

// GetCategory обрабатывает запрос на получение категории.
func (h *Handler) GetCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetCategory)

	category, err := h.categoriesUseCase.GetCategory(requestCtx, middleware.UserID(ctx), ctx.Params("category_id"))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendCategory(ctx, http.StatusOK, category)
}

// ListCategories обрабатывает запрос на получение страницы категорий.
func (h *Handler) ListCategories(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListCategories)

	page, pageSize, err := parsePagination(ctx)
	if err != nil {
		log.Error(requestCtx, ErrorInvalidQueryParams, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidQueryParams)
	}

	query := &dto.ListCategoriesQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   ctx.Query("search"),
	}

	response, err := h.categoriesUseCase.ListCategories(requestCtx, middleware.UserID(ctx), query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// UpdateCategory обрабатывает запрос на переименование категории.
func (h *Handler) UpdateCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateCategory)

	var req dto.UpdateCategoryRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	category, err := h.categoriesUseCase.UpdateCategory(requestCtx, middleware.UserID(ctx), ctx.Params("category_id"), &req)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendCategory(ctx, http.StatusOK, category)
}

// DeleteCategory обрабатывает запрос на удаление категории.
// Без force=true непустая категория не удаляется, с force=true
// заметки сначала отвязываются от категории.
func (h *Handler) DeleteCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteCategory)

	force := false
	if raw := ctx.Query("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error(requestCtx, ErrorInvalidQueryParams, zap.Error(err))
			return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidQueryParams)
		}
		force = parsed
	}

	if err := h.categoriesUseCase.DeleteCategory(requestCtx, middleware.UserID(ctx), ctx.Params("category_id"), force); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// ListCategoryNotes обрабатывает запрос на получение заметок категории.
func (h *Handler) ListCategoryNotes(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCategoryNotes)

	page, pageSize, err := parsePagination(ctx)
	if err != nil {
		log.Error(requestCtx, ErrorInvalidQueryParams, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidQueryParams)
	}

	query := &dto.ListNotesQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   ctx.Query("search"),
		Ordering: ctx.Query("ordering"),
	}

	response, err := h.categoriesUseCase.ListCategoryNotes(requestCtx, middleware.UserID(ctx), ctx.Params("category_id"), query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
