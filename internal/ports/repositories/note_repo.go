package repositories

import (
	"context"
	"time"

	"notekeep/internal/domain/entities"
)

// NoteFilter описывает условия выборки заметок пользователя.
// Nil-поля означают отсутствие фильтра.
type NoteFilter struct {
	Search       string
	CategoryID   *string
	IsPinned     *bool
	CreatedAfter *time.Time
	Ordering     string
}

// NoteStats содержит агрегаты по заметкам пользователя.
type NoteStats struct {
	TotalNotes       int
	PinnedNotes      int
	CategorizedNotes int
	RecentNotes      int
	TotalCategories  int
}

// NoteRepository определяет интерфейс для работы с репозиторием заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)

	GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error)

	List(ctx context.Context, userID string, filter *NoteFilter, limit, offset int) ([]*entities.Note, int, error)

	Update(ctx context.Context, note *entities.Note) (*entities.Note, error)

	Delete(ctx context.Context, noteID, userID string) error

	SetPinned(ctx context.Context, noteID, userID string, pinned bool) error

	SetCategory(ctx context.Context, noteID, userID string, categoryID *string) error

	DetachCategory(ctx context.Context, categoryID, userID string) (int64, error)

	Stats(ctx context.Context, userID string, recentSince time.Time) (*NoteStats, error)
}
