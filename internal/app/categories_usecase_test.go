package app_test

import (
	"context"
	"strings"
	"testing"

	"notekeep/internal/app"
	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	userID := "user-123"

	tests := []struct {
		name        string
		req         *dto.CreateCategoryRequest
		setupMocks  func(categoryRepo *mockCategoryRepository)
		expectedErr error
	}{
		{
			name: "success - category created",
			req:  &dto.CreateCategoryRequest{Name: "Work"},
			setupMocks: func(categoryRepo *mockCategoryRepository) {
				categoryRepo.On("ExistsByName", mock.Anything, userID, "Work", "").
					Return(false, nil).Once()
				categoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Category) bool {
					return c.UserID == userID && c.Name == "Work"
				})).Return(&entities.Category{ID: "cat-1", UserID: userID, Name: "Work"}, nil).Once()
			},
		},
		{
			name:        "error - empty name",
			req:         &dto.CreateCategoryRequest{Name: "   "},
			setupMocks:  func(*mockCategoryRepository) {},
			expectedErr: entities.ErrEmptyCategoryName,
		},
		{
			name:        "error - name too long",
			req:         &dto.CreateCategoryRequest{Name: strings.Repeat("x", 101)},
			setupMocks:  func(*mockCategoryRepository) {},
			expectedErr: entities.ErrCategoryNameTooLong,
		},
		{
			name: "error - duplicate name",
			req:  &dto.CreateCategoryRequest{Name: "Work"},
			setupMocks: func(categoryRepo *mockCategoryRepository) {
				categoryRepo.On("ExistsByName", mock.Anything, userID, "Work", "").
					Return(true, nil).Once()
			},
			expectedErr: entities.ErrCategoryNameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryRepo := new(mockCategoryRepository)
			tt.setupMocks(categoryRepo)

			useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
			category, err := useCase.CreateCategory(context.Background(), userID, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, category)
			} else {
				require.NoError(t, err)
				require.NotNil(t, category)
			}

			categoryRepo.AssertExpectations(t)
		})
	}
}

func TestListCategories(t *testing.T) {
	userID := "user-123"

	t.Run("success - page returned", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("List", mock.Anything, userID, "", dto.DefaultPageSize, 0).
			Return([]*entities.Category{{ID: "cat-1", Name: "Work", NotesCount: 3}}, 1, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		resp, err := useCase.ListCategories(context.Background(), userID, &dto.ListCategoriesQuery{})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalCount)
		require.Len(t, resp.Categories, 1)
		assert.Equal(t, 3, resp.Categories[0].NotesCount)
	})

	t.Run("error - invalid page size", func(t *testing.T) {
		useCase := app.NewCategoriesUseCase(new(mockCategoryRepository), new(mockNoteRepository), nil)
		_, err := useCase.ListCategories(context.Background(), userID, &dto.ListCategoriesQuery{PageSize: -1})

		require.Error(t, err)
		assert.ErrorIs(t, err, app.ErrInvalidPageSize)
	})
}

func TestUpdateCategory(t *testing.T) {
	userID := "user-123"
	categoryID := "cat-456"

	t.Run("success - category renamed", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(&entities.Category{ID: categoryID, UserID: userID, Name: "Old"}, nil).Once()
		categoryRepo.On("ExistsByName", mock.Anything, userID, "New", categoryID).
			Return(false, nil).Once()
		categoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.Category) bool {
			return c.Name == "New"
		})).Return(&entities.Category{ID: categoryID, Name: "New"}, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		category, err := useCase.UpdateCategory(context.Background(), userID, categoryID, &dto.UpdateCategoryRequest{Name: "New"})

		require.NoError(t, err)
		assert.Equal(t, "New", category.Name)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("error - rename to taken name", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(&entities.Category{ID: categoryID, UserID: userID, Name: "Old"}, nil).Once()
		categoryRepo.On("ExistsByName", mock.Anything, userID, "Taken", categoryID).
			Return(true, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		_, err := useCase.UpdateCategory(context.Background(), userID, categoryID, &dto.UpdateCategoryRequest{Name: "Taken"})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrCategoryNameTaken)
	})

	t.Run("error - category not found", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(nil, entities.ErrCategoryNotFound).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		_, err := useCase.UpdateCategory(context.Background(), userID, categoryID, &dto.UpdateCategoryRequest{Name: "New"})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	userID := "user-123"
	categoryID := "cat-456"
	category := &entities.Category{ID: categoryID, UserID: userID, Name: "Work"}

	t.Run("success - empty category deleted", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).Return(category, nil).Once()
		categoryRepo.On("CountNotes", mock.Anything, categoryID, userID).Return(0, nil).Once()
		categoryRepo.On("Delete", mock.Anything, categoryID, userID).Return(nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		err := useCase.DeleteCategory(context.Background(), userID, categoryID, false)

		require.NoError(t, err)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("error - delete blocked while notes attached", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).Return(category, nil).Once()
		categoryRepo.On("CountNotes", mock.Anything, categoryID, userID).Return(5, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		err := useCase.DeleteCategory(context.Background(), userID, categoryID, false)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrCategoryNotEmpty)
		categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success - force delete detaches notes first", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).Return(category, nil).Once()
		categoryRepo.On("CountNotes", mock.Anything, categoryID, userID).Return(5, nil).Once()
		categoryRepo.On("Delete", mock.Anything, categoryID, userID).Return(nil).Once()

		noteRepo := new(mockNoteRepository)
		noteRepo.On("DetachCategory", mock.Anything, categoryID, userID).Return(int64(5), nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, noteRepo, nil)
		err := useCase.DeleteCategory(context.Background(), userID, categoryID, true)

		require.NoError(t, err)
		categoryRepo.AssertExpectations(t)
		noteRepo.AssertExpectations(t)
	})

	t.Run("error - category not found", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(nil, entities.ErrCategoryNotFound).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		err := useCase.DeleteCategory(context.Background(), userID, categoryID, false)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}

func TestListCategoryNotes(t *testing.T) {
	userID := "user-123"
	categoryID := "cat-456"

	t.Run("success - notes filtered by category", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(&entities.Category{ID: categoryID, UserID: userID}, nil).Once()

		noteRepo := new(mockNoteRepository)
		noteRepo.On("List", mock.Anything, userID, mock.MatchedBy(func(f *repositories.NoteFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID
		}), dto.DefaultPageSize, 0).
			Return([]*entities.Note{{ID: "note-1", CategoryID: strPtr(categoryID)}}, 1, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, noteRepo, nil)
		resp, err := useCase.ListCategoryNotes(context.Background(), userID, categoryID, &dto.ListNotesQuery{})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalCount)
	})

	t.Run("success - ordering passed to repository", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(&entities.Category{ID: categoryID, UserID: userID}, nil).Once()

		noteRepo := new(mockNoteRepository)
		noteRepo.On("List", mock.Anything, userID, mock.MatchedBy(func(f *repositories.NoteFilter) bool {
			return f.Ordering == "-created_at"
		}), dto.DefaultPageSize, 0).
			Return([]*entities.Note{}, 0, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, noteRepo, nil)
		_, err := useCase.ListCategoryNotes(context.Background(), userID, categoryID, &dto.ListNotesQuery{Ordering: "-created_at"})

		require.NoError(t, err)
		noteRepo.AssertExpectations(t)
	})

	t.Run("error - unsupported ordering field", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(&entities.Category{ID: categoryID, UserID: userID}, nil).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		_, err := useCase.ListCategoryNotes(context.Background(), userID, categoryID, &dto.ListNotesQuery{Ordering: "email"})

		require.Error(t, err)
		assert.ErrorIs(t, err, app.ErrInvalidOrdering)
	})

	t.Run("error - category not found", func(t *testing.T) {
		categoryRepo := new(mockCategoryRepository)
		categoryRepo.On("GetByID", mock.Anything, categoryID, userID).
			Return(nil, entities.ErrCategoryNotFound).Once()

		useCase := app.NewCategoriesUseCase(categoryRepo, new(mockNoteRepository), nil)
		_, err := useCase.ListCategoryNotes(context.Background(), userID, categoryID, &dto.ListNotesQuery{})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})
}
