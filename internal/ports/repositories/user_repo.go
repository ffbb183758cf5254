// Package repositories определяет интерфейсы репозиториев сервиса заметок.
package repositories

import (
	"context"

	"notekeep/internal/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error

	Delete(ctx context.Context, id string) error
}
