// Package notes содержит HTTP обработчики для работы с заметками.
package notes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

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
	LogHandlerCreateNote = "notes handler: create note"
	LogHandlerGetNote    = "notes handler: get note"
	LogHandlerListNotes  = "notes handler: list notes"
	LogHandlerUpdateNote = "notes handler: update note"
	LogHandlerDeleteNote = "notes handler: delete note"
	LogHandlerPinNote    = "notes handler: pin note"
	LogHandlerUnpinNote  = "notes handler: unpin note"
	LogHandlerMoveNote   = "notes handler: move note"
	LogHandlerStats      = "notes handler: stats"

	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidQueryParams   = "invalid query parameters"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики заметок.
type Handler struct {
	notesUseCase api.NotesUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesUseCase api.NotesUseCase) *Handler {
	return &Handler{
		notesUseCase: notesUseCase,
	}
}

// parseListQuery разбирает параметры выборки списка заметок из строки запроса.
func parseListQuery(ctx fiber.Ctx) (*dto.ListNotesQuery, error) {
	query := &dto.ListNotesQuery{
		Search:   ctx.Query("search"),
		Ordering: ctx.Query("ordering"),
	}

	if raw := ctx.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing page: %w", err)
		}
		query.Page = page
	}

	if raw := ctx.Query("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing page_size: %w", err)
		}
		query.PageSize = pageSize
	}

	if raw := ctx.Query("category_id"); raw != "" {
		query.CategoryID = &raw
	}

	if raw := ctx.Query("is_pinned"); raw != "" {
		pinned, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing is_pinned: %w", err)
		}
		query.IsPinned = &pinned
	}

	return query, nil
}

func (h *Handler) sendNote(ctx fiber.Ctx, statusCode int, note *entities.Note) error {
	if err := ctx.Status(statusCode).JSON(dto.NoteResponse{
		Note: dto.NoteFromEntity(note, time.Now()),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	note, err := h.notesUseCase.CreateNote(requestCtx, middleware.UserID(ctx), &req)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendNote(ctx, http.StatusCreated, note)
}

// GetNote обрабатывает запрос на получение заметки.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetNote)

	note, err := h.notesUseCase.GetNote(requestCtx, middleware.UserID(ctx), ctx.Params("note_id"))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendNote(ctx, http.StatusOK, note)
}

// ListNotes обрабатывает запрос на получение страницы заметок.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	return h.listNotes(ctx, nil)
}

// ListPinnedNotes возвращает только закрепленные заметки.
func (h *Handler) ListPinnedNotes(ctx fiber.Ctx) error {
	return h.listNotes(ctx, func(query *dto.ListNotesQuery) {
		pinned := true
		query.IsPinned = &pinned
	})
}

// ListRecentNotes возвращает заметки, созданные за последнюю неделю,
// отсортированные от новых к старым.
func (h *Handler) ListRecentNotes(ctx fiber.Ctx) error {
	return h.listNotes(ctx, func(query *dto.ListNotesQuery) {
		since := time.Now().Add(-entities.RecentNotePeriod)
		query.CreatedAfter = &since
		query.Ordering = "-created_at"
	})
}

func (h *Handler) listNotes(ctx fiber.Ctx, adjust func(*dto.ListNotesQuery)) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListNotes)

	query, err := parseListQuery(ctx)
	if err != nil {
		log.Error(requestCtx, ErrorInvalidQueryParams, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidQueryParams)
	}

	if adjust != nil {
		adjust(query)
	}

	response, err := h.notesUseCase.ListNotes(requestCtx, middleware.UserID(ctx), query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на частичное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateNote)

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	note, err := h.notesUseCase.UpdateNote(requestCtx, middleware.UserID(ctx), ctx.Params("note_id"), &req)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendNote(ctx, http.StatusOK, note)
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteNote)

	if err := h.notesUseCase.DeleteNote(requestCtx, middleware.UserID(ctx), ctx.Params("note_id")); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// PinNote закрепляет заметку.
func (h *Handler) PinNote(ctx fiber.Ctx) error {
	return h.setPinned(ctx, LogHandlerPinNote, true)
}

// UnpinNote снимает закрепление заметки.
func (h *Handler) UnpinNote(ctx fiber.Ctx) error {
	return h.setPinned(ctx, LogHandlerUnpinNote, false)
}

func (h *Handler) setPinned(ctx fiber.Ctx, logMsg string, pinned bool) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, logMsg)

	note, err := h.notesUseCase.SetPinned(requestCtx, middleware.UserID(ctx), ctx.Params("note_id"), pinned)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendNote(ctx, http.StatusOK, note)
}

// MoveNote перемещает заметку в категорию. Nil category_id в теле
// запроса убирает заметку из категории.
func (h *Handler) MoveNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerMoveNote)

	var req dto.MoveNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	note, err := h.notesUseCase.MoveToCategory(requestCtx, middleware.UserID(ctx), ctx.Params("note_id"), req.CategoryID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return h.sendNote(ctx, http.StatusOK, note)
}

// Stats обрабатывает запрос на получение статистики заметок пользователя.
func (h *Handler) Stats(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerStats)

	stats, err := h.notesUseCase.NotesStats(requestCtx, middleware.UserID(ctx))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(stats); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
