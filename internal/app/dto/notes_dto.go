package dto

import (
	"strings"
	"time"

	"notekeep/internal/domain/entities"
)

// Параметры пагинации списков.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title      string  `json:"title" validate:"required"`
	Content    string  `json:"content" validate:"required"`
	CategoryID *string `json:"category_id"`
	IsPinned   bool    `json:"is_pinned"`
}

// UpdateNoteRequest содержит данные для частичного обновления заметки.
type UpdateNoteRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *string `json:"category_id"`
	IsPinned   *bool   `json:"is_pinned"`
}

// MoveNoteRequest содержит данные для перемещения заметки в категорию.
// Nil CategoryID убирает заметку из категории.
type MoveNoteRequest struct {
	CategoryID *string `json:"category_id"`
}

// ListNotesQuery содержит параметры выборки списка заметок.
type ListNotesQuery struct {
	Page         int
	PageSize     int
	Search       string
	CategoryID   *string
	IsPinned     *bool
	CreatedAfter *time.Time
	Ordering     string
}

// Note представляет заметку в ответе API.
type Note struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CategoryID     *string   `json:"category_id"`
	CategoryName   string    `json:"category_name,omitempty"`
	IsPinned       bool      `json:"is_pinned"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	IsRecent       bool      `json:"is_recent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NoteResponse содержит информацию о заметке для ответа.
type NoteResponse struct {
	Note *Note `json:"note"`
}

// ListNotesResponse содержит список заметок и информацию о пагинации.
type ListNotesResponse struct {
	Notes      []*Note `json:"notes"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// NotesStatsResponse содержит статистику заметок пользователя.
type NotesStatsResponse struct {
	TotalNotes       int `json:"total_notes"`
	PinnedNotes      int `json:"pinned_notes"`
	CategorizedNotes int `json:"categorized_notes"`
	RecentNotes      int `json:"recent_notes"`
	TotalCategories  int `json:"total_categories"`
}

// NoteFromEntity преобразует доменную заметку в представление API.
func NoteFromEntity(note *entities.Note, now time.Time) *Note {
	if note == nil {
		return nil
	}
	return &Note{
		ID:             note.ID,
		Title:          note.Title,
		Content:        note.Content,
		CategoryID:     note.CategoryID,
		CategoryName:   note.CategoryName,
		IsPinned:       note.IsPinned,
		WordCount:      len(strings.Fields(note.Content)),
		CharacterCount: len([]rune(note.Content)),
		IsRecent:       note.IsRecent(now),
		CreatedAt:      note.CreatedAt,
		UpdatedAt:      note.UpdatedAt,
	}
}

// NotesFromEntities преобразует список доменных заметок в представление API.
func NotesFromEntities(notes []*entities.Note, now time.Time) []*Note {
	result := make([]*Note, len(notes))
	for i, note := range notes {
		result[i] = NoteFromEntity(note, now)
	}
	return result
}

// TotalPages вычисляет количество страниц для заданного размера страницы.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
