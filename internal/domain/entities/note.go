package entities

import (
	"errors"
	"time"
)

// Ограничения на поля заметки.
const (
	MaxNoteTitleLength = 200

	// RecentNotePeriod - период, в течение которого заметка считается недавней.
	RecentNotePeriod = 7 * 24 * time.Hour
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrEmptyNoteTitle  = errors.New("note title cannot be empty")
	ErrNoteTitleTooLong = errors.New("note title cannot exceed 200 characters")
	ErrEmptyNoteContent = errors.New("note content cannot be empty")
)

// Note представляет собой заметку пользователя.
// CategoryName заполняется репозиторием из связанной категории и
// не хранится в таблице заметок.
type Note struct {
	ID           string
	UserID       string
	CategoryID   *string
	CategoryName string
	Title        string
	Content      string
	IsPinned     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRecent сообщает, была ли заметка создана в течение последних семи дней.
func (n *Note) IsRecent(now time.Time) bool {
	return now.Sub(n.CreatedAt) <= RecentNotePeriod
}
