package api

import (
	"context"

	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
)

// NotesUseCase определяет интерфейс сценариев работы с заметками.
type NotesUseCase interface {
	CreateNote(ctx context.Context, userID string, req *dto.CreateNoteRequest) (*entities.Note, error)

	GetNote(ctx context.Context, userID, noteID string) (*entities.Note, error)

	ListNotes(ctx context.Context, userID string, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error)

	UpdateNote(ctx context.Context, userID, noteID string, req *dto.UpdateNoteRequest) (*entities.Note, error)

	DeleteNote(ctx context.Context, userID, noteID string) error

	SetPinned(ctx context.Context, userID, noteID string, pinned bool) (*entities.Note, error)

	MoveToCategory(ctx context.Context, userID, noteID string, categoryID *string) (*entities.Note, error)

	NotesStats(ctx context.Context, userID string) (*dto.NotesStatsResponse, error)
}
