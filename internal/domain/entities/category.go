package entities

import (
	"errors"
	"time"
)

// Ограничения на поля категории.
const MaxCategoryNameLength = 100

// Ошибки домена категорий.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name cannot exceed 100 characters")
	ErrCategoryNameTaken   = errors.New("category with this name already exists")
	ErrCategoryNotEmpty    = errors.New("category still has notes attached")
)

// Category представляет категорию для организации заметок.
// NotesCount заполняется репозиторием и не хранится в таблице категорий.
type Category struct {
	ID         string
	UserID     string
	Name       string
	NotesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
