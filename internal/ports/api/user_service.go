package api

import (
	"context"

	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
)

// UserUseCase определяет интерфейс сценариев работы с профилем пользователя.
type UserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)

	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*entities.User, error)

	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}
