// Package api определяет интерфейсы сценариев использования (use cases).
package api

import (
	"context"

	"notekeep/internal/domain/services"
)

// AuthUseCase определяет интерфейс сценариев аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*services.TokenPair, error)

	Login(ctx context.Context, email, password string) (*services.TokenPair, error)

	RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	Logout(ctx context.Context, refreshToken string) error
}
