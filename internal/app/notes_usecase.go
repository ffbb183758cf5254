package app

import (
	"context"
	"encoding/json"
	"errors"
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
	"golang.org/x/sync/singleflight"
)

const (
	methodCreateNote = "CreateNote"
	methodGetNote    = "GetNote"
	methodListNotes  = "ListNotes"
	methodUpdateNote = "UpdateNote"
	methodDeleteNote = "DeleteNote"
	methodSetPinned  = "SetPinned"
	methodMoveNote   = "MoveToCategory"
	methodNotesStats = "NotesStats"

	msgCreatingNote     = "creating note"
	msgNoteCreated      = "note created"
	msgFetchingNote     = "fetching note"
	msgNoteCacheHit     = "note served from cache"
	msgListingNotes     = "listing notes"
	msgUpdatingNote     = "updating note"
	msgNoteUpdated      = "note updated"
	msgDeletingNote     = "deleting note"
	msgNoteDeleted      = "note deleted"
	msgPinningNote      = "changing note pin state"
	msgMovingNote       = "moving note to category"
	msgFetchingStats    = "fetching notes stats"
	msgStatsCacheHit    = "stats served from cache"
	msgErrCreatingNote  = "failed to create note"
	msgErrFetchingNote  = "failed to fetch note"
	msgErrListingNotes  = "failed to list notes"
	msgErrUpdatingNote  = "failed to update note"
	msgErrDeletingNote  = "failed to delete note"
	msgErrFetchingStats = "failed to fetch notes stats"
	msgErrCacheRead     = "cache read failed"
	msgErrCacheWrite    = "cache write failed"
	msgErrCacheDelete   = "cache invalidation failed"

	errCtxValidatingNote    = "validating note"
	errCtxCheckingCategory  = "checking category"
	errCtxCreatingNote      = "creating note"
	errCtxFetchingNote      = "fetching note"
	errCtxListingNotes      = "listing notes"
	errCtxUpdatingNote      = "updating note"
	errCtxDeletingNote      = "deleting note"
	errCtxPinningNote       = "setting pin state"
	errCtxMovingNote        = "moving note"
	errCtxFetchingStats     = "fetching stats"
	errCtxInvalidOrdering   = "invalid ordering"
	errCtxInvalidPagination = "invalid pagination"
)

// Ошибки валидации параметров списка.
var (
	ErrInvalidPage     = errors.New("page must be a positive integer")
	ErrInvalidPageSize = errors.New("page_size must be between 1 and 100")
	ErrInvalidOrdering = errors.New("unsupported ordering field")
)

// allowedOrderings - поля, по которым разрешена сортировка списка заметок.
var allowedOrderings = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"title":      {},
	"is_pinned":  {},
}

// NotesUseCaseImpl реализует интерфейс api.NotesUseCase.
type NotesUseCaseImpl struct {
	noteRepo     repositories.NoteRepository
	categoryRepo repositories.CategoryRepository
	cache        cache.Cache
	statsGroup   singleflight.Group
}

// NewNotesUseCase создает новый экземпляр сценариев работы с заметками.
// Кэш может быть nil, тогда все запросы идут напрямую в репозиторий.
func NewNotesUseCase(
	noteRepo repositories.NoteRepository,
	categoryRepo repositories.CategoryRepository,
	noteCache cache.Cache,
) api.NotesUseCase {
	return &NotesUseCaseImpl{
		noteRepo:     noteRepo,
		categoryRepo: categoryRepo,
		cache:        noteCache,
	}
}

// CreateNote создает новую заметку пользователя.
func (n *NotesUseCaseImpl) CreateNote(ctx context.Context, userID string, req *dto.CreateNoteRequest) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	title := strings.TrimSpace(req.Title)
	if err := validateNoteFields(title, req.Content); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingNote, err)
	}

	if err := n.checkCategoryOwnership(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}

	note := &entities.Note{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      title,
		Content:    req.Content,
		IsPinned:   req.IsPinned,
	}

	created, err := n.noteRepo.Create(ctx, note)
	if err != nil {
		log.Error(ctx, msgErrCreatingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	n.invalidateStats(ctx, userID)
	log.Info(ctx, msgNoteCreated, zap.String("noteID", created.ID))
	return created, nil
}

// GetNote возвращает заметку пользователя по идентификатору.
func (n *NotesUseCaseImpl) GetNote(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGetNote),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgFetchingNote)

	if cached := n.cachedNote(ctx, userID, noteID); cached != nil {
		log.Debug(ctx, msgNoteCacheHit)
		return cached, nil
	}

	note, err := n.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgErrFetchingNote, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}

	n.storeNote(ctx, note)
	return note, nil
}

// ListNotes возвращает страницу заметок пользователя.
func (n *NotesUseCaseImpl) ListNotes(ctx context.Context, userID string, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListNotes), zap.String("userID", userID))
	log.Debug(ctx, msgListingNotes, zap.Int("page", query.Page), zap.Int("pageSize", query.PageSize))

	page, pageSize, err := normalizePagination(query.Page, query.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidPagination, err)
	}

	ordering, err := normalizeOrdering(query.Ordering)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidOrdering, err)
	}

	filter := &repositories.NoteFilter{
		Search:       strings.TrimSpace(query.Search),
		CategoryID:   query.CategoryID,
		IsPinned:     query.IsPinned,
		CreatedAfter: query.CreatedAfter,
		Ordering:     ordering,
	}

	notes, total, err := n.noteRepo.List(ctx, userID, filter, pageSize, (page-1)*pageSize)
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

// UpdateNote частично обновляет заметку пользователя.
// Пустая строка в CategoryID отвязывает заметку от категории.
func (n *NotesUseCaseImpl) UpdateNote(ctx context.Context, userID, noteID string, req *dto.UpdateNoteRequest) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodUpdateNote),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgUpdatingNote)

	note, err := n.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}

	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.IsPinned != nil {
		note.IsPinned = *req.IsPinned
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			note.CategoryID = nil
		} else {
			if err := n.checkCategoryOwnership(ctx, userID, req.CategoryID); err != nil {
				return nil, err
			}
			note.CategoryID = req.CategoryID
		}
	}

	if err := validateNoteFields(note.Title, note.Content); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingNote, err)
	}

	note.UpdatedAt = time.Now()

	updated, err := n.noteRepo.Update(ctx, note)
	if err != nil {
		log.Error(ctx, msgErrUpdatingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	n.invalidateNote(ctx, userID, noteID)
	log.Info(ctx, msgNoteUpdated)
	return updated, nil
}

// DeleteNote удаляет заметку пользователя.
func (n *NotesUseCaseImpl) DeleteNote(ctx context.Context, userID, noteID string) error {
	log := logger.Log(ctx).With(
		zap.String("method", methodDeleteNote),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgDeletingNote)

	if err := n.noteRepo.Delete(ctx, noteID, userID); err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgErrDeletingNote, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	n.invalidateNote(ctx, userID, noteID)
	log.Info(ctx, msgNoteDeleted)
	return nil
}

// SetPinned закрепляет или открепляет заметку.
func (n *NotesUseCaseImpl) SetPinned(ctx context.Context, userID, noteID string, pinned bool) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodSetPinned),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
		zap.Bool("pinned", pinned),
	)
	log.Debug(ctx, msgPinningNote)

	if err := n.noteRepo.SetPinned(ctx, noteID, userID, pinned); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxPinningNote, err)
	}

	n.invalidateNote(ctx, userID, noteID)

	note, err := n.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}
	return note, nil
}

// MoveToCategory перемещает заметку в категорию.
// Nil categoryID убирает заметку из категории.
func (n *NotesUseCaseImpl) MoveToCategory(ctx context.Context, userID, noteID string, categoryID *string) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodMoveNote),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgMovingNote)

	if err := n.checkCategoryOwnership(ctx, userID, categoryID); err != nil {
		return nil, err
	}

	if err := n.noteRepo.SetCategory(ctx, noteID, userID, categoryID); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxMovingNote, err)
	}

	n.invalidateNote(ctx, userID, noteID)

	note, err := n.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}
	return note, nil
}

// NotesStats возвращает статистику заметок пользователя.
// Одновременные промахи кэша для одного пользователя сводятся к
// одному запросу в репозиторий.
func (n *NotesUseCaseImpl) NotesStats(ctx context.Context, userID string) (*dto.NotesStatsResponse, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNotesStats), zap.String("userID", userID))
	log.Debug(ctx, msgFetchingStats)

	key := statsCacheKey(userID)

	if n.cache != nil {
		cached, err := n.cache.Get(ctx, key)
		if err != nil {
			log.Warn(ctx, msgErrCacheRead, zap.Error(err))
		} else if cached != "" {
			var stats dto.NotesStatsResponse
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				log.Debug(ctx, msgStatsCacheHit)
				return &stats, nil
			}
		}
	}

	result, err, _ := n.statsGroup.Do(key, func() (interface{}, error) {
		stats, err := n.noteRepo.Stats(ctx, userID, time.Now().Add(-entities.RecentNotePeriod))
		if err != nil {
			return nil, err
		}
		resp := &dto.NotesStatsResponse{
			TotalNotes:       stats.TotalNotes,
			PinnedNotes:      stats.PinnedNotes,
			CategorizedNotes: stats.CategorizedNotes,
			RecentNotes:      stats.RecentNotes,
			TotalCategories:  stats.TotalCategories,
		}
		if n.cache != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := n.cache.Set(ctx, key, string(data), statsCacheTTL); err != nil {
					log.Warn(ctx, msgErrCacheWrite, zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		log.Error(ctx, msgErrFetchingStats, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingStats, err)
	}

	stats, ok := result.(*dto.NotesStatsResponse)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type", errCtxFetchingStats)
	}
	return stats, nil
}

// checkCategoryOwnership проверяет, что категория существует и принадлежит пользователю.
func (n *NotesUseCaseImpl) checkCategoryOwnership(ctx context.Context, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := n.categoryRepo.GetByID(ctx, *categoryID, userID); err != nil {
		return fmt.Errorf("%s: %w", errCtxCheckingCategory, err)
	}
	return nil
}

// cachedNote возвращает заметку из кэша либо nil при промахе.
func (n *NotesUseCaseImpl) cachedNote(ctx context.Context, userID, noteID string) *entities.Note {
	if n.cache == nil {
		return nil
	}
	value, err := n.cache.Get(ctx, noteCacheKey(userID, noteID))
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheRead, zap.Error(err))
		return nil
	}
	if value == "" {
		return nil
	}
	var note entities.Note
	if err := json.Unmarshal([]byte(value), &note); err != nil {
		return nil
	}
	return &note
}

// storeNote сохраняет заметку в кэш.
func (n *NotesUseCaseImpl) storeNote(ctx context.Context, note *entities.Note) {
	if n.cache == nil || note == nil {
		return
	}
	data, err := json.Marshal(note)
	if err != nil {
		return
	}
	if err := n.cache.Set(ctx, noteCacheKey(note.UserID, note.ID), string(data), noteCacheTTL); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheWrite, zap.Error(err))
	}
}

// invalidateNote удаляет из кэша заметку и статистику пользователя.
func (n *NotesUseCaseImpl) invalidateNote(ctx context.Context, userID, noteID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Delete(ctx, noteCacheKey(userID, noteID), statsCacheKey(userID)); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheDelete, zap.Error(err))
	}
}

// invalidateStats удаляет из кэша статистику пользователя.
func (n *NotesUseCaseImpl) invalidateStats(ctx context.Context, userID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheDelete, zap.Error(err))
	}
}

// validateNoteFields проверяет заголовок и содержимое заметки.
func validateNoteFields(title, content string) error {
	if title == "" {
		return entities.ErrEmptyNoteTitle
	}
	if len([]rune(title)) > entities.MaxNoteTitleLength {
		return entities.ErrNoteTitleTooLong
	}
	if strings.TrimSpace(content) == "" {
		return entities.ErrEmptyNoteContent
	}
	return nil
}

// normalizePagination приводит параметры страницы к допустимым значениям.
// Размер страницы сверх максимума молча урезается до dto.MaxPageSize.
func normalizePagination(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize == 0 {
		pageSize = dto.DefaultPageSize
	}
	if pageSize < 1 {
		return 0, 0, ErrInvalidPageSize
	}
	if pageSize > dto.MaxPageSize {
		pageSize = dto.MaxPageSize
	}
	return page, pageSize, nil
}

// normalizeOrdering проверяет поле сортировки из запроса.
// Пустая строка означает порядок по умолчанию: закреплённые заметки
// первыми, затем по убыванию даты обновления.
func normalizeOrdering(ordering string) (string, error) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return "", nil
	}
	field := strings.TrimPrefix(ordering, "-")
	if _, ok := allowedOrderings[field]; !ok {
		return "", ErrInvalidOrdering
	}
	return ordering, nil
}
