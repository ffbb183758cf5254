package app_test

import (
	"context"
	"testing"

	"notekeep/internal/app"
	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	userID := "user-123"

	t.Run("success - profile returned", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).
			Return(&entities.User{ID: userID, Email: "user@example.com", Username: "testuser"}, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockTokenRepository), new(mockPasswordService))
		user, err := useCase.GetProfile(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
		userRepo.AssertExpectations(t)
	})

	t.Run("error - user not found", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).
			Return(nil, entities.ErrUserNotFound).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockTokenRepository), new(mockPasswordService))
		user, err := useCase.GetProfile(context.Background(), userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestUpdateProfile(t *testing.T) {
	userID := "user-123"

	tests := []struct {
		name        string
		req         *dto.UpdateProfileRequest
		setupMocks  func(userRepo *mockUserRepository)
		expectedErr error
	}{
		{
			name: "success - email and username updated",
			req:  &dto.UpdateProfileRequest{Email: strPtr("new@example.com"), Username: strPtr("newname")},
			setupMocks: func(userRepo *mockUserRepository) {
				userRepo.On("FindByID", mock.Anything, userID).
					Return(&entities.User{ID: userID, Email: "old@example.com", Username: "oldname"}, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, "new@example.com").
					Return(nil, entities.ErrUserNotFound).Once()
				userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Email == "new@example.com" && u.Username == "newname"
				})).Return(&entities.User{ID: userID, Email: "new@example.com", Username: "newname"}, nil).Once()
			},
		},
		{
			name: "error - email already taken",
			req:  &dto.UpdateProfileRequest{Email: strPtr("taken@example.com")},
			setupMocks: func(userRepo *mockUserRepository) {
				userRepo.On("FindByID", mock.Anything, userID).
					Return(&entities.User{ID: userID, Email: "old@example.com"}, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, "taken@example.com").
					Return(&entities.User{ID: "other"}, nil).Once()
			},
			expectedErr: services.ErrEmailAlreadyExists,
		},
		{
			name: "error - invalid email format",
			req:  &dto.UpdateProfileRequest{Email: strPtr("broken")},
			setupMocks: func(userRepo *mockUserRepository) {
				userRepo.On("FindByID", mock.Anything, userID).
					Return(&entities.User{ID: userID}, nil).Once()
			},
			expectedErr: entities.ErrInvalidEmail,
		},
		{
			name: "error - username too short",
			req:  &dto.UpdateProfileRequest{Username: strPtr("x")},
			setupMocks: func(userRepo *mockUserRepository) {
				userRepo.On("FindByID", mock.Anything, userID).
					Return(&entities.User{ID: userID}, nil).Once()
			},
			expectedErr: entities.ErrEmptyUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mockUserRepository)
			tt.setupMocks(userRepo)

			useCase := app.NewUserUseCase(userRepo, new(mockTokenRepository), new(mockPasswordService))
			user, err := useCase.UpdateProfile(context.Background(), userID, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
			}

			userRepo.AssertExpectations(t)
		})
	}
}

func TestChangePassword(t *testing.T) {
	userID := "user-123"
	user := &entities.User{ID: userID, PasswordHash: "old-hash"}

	t.Run("success - password changed and tokens revoked", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		tokenRepo := new(mockTokenRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "oldpass1", "old-hash").Return(true, nil).Once()
		passwordSvc.On("Hash", mock.Anything, "newpass1").Return("new-hash", nil).Once()
		userRepo.On("UpdatePassword", mock.Anything, userID, "new-hash").Return(nil).Once()
		tokenRepo.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, tokenRepo, passwordSvc)
		err := useCase.ChangePassword(context.Background(), userID, &dto.ChangePasswordRequest{
			CurrentPassword: "oldpass1",
			NewPassword:     "newpass1",
		})

		require.NoError(t, err)
		userRepo.AssertExpectations(t)
		tokenRepo.AssertExpectations(t)
		passwordSvc.AssertExpectations(t)
	})

	t.Run("error - wrong current password", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "wrongpass1", "old-hash").Return(false, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockTokenRepository), passwordSvc)
		err := useCase.ChangePassword(context.Background(), userID, &dto.ChangePasswordRequest{
			CurrentPassword: "wrongpass1",
			NewPassword:     "newpass1",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidPassword)
	})

	t.Run("error - weak new password", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "oldpass1", "old-hash").Return(true, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockTokenRepository), passwordSvc)
		err := useCase.ChangePassword(context.Background(), userID, &dto.ChangePasswordRequest{
			CurrentPassword: "oldpass1",
			NewPassword:     "lettersonly",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrPasswordTooWeak)
	})
}
