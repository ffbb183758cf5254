// Package users содержит HTTP обработчики профиля пользователя.
package users

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeep/internal/adapters/http/httperr"
	"notekeep/internal/adapters/http/middleware"
	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/ports/api"
	"notekeep/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerGetProfile     = "user handler: get profile"
	LogHandlerUpdateProfile  = "user handler: update profile"
	LogHandlerChangePassword = "user handler: change password"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики профиля пользователя.
type Handler struct {
	userUseCase api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика профиля.
func NewHandler(userUseCase api.UserUseCase) *Handler {
	return &Handler{
		userUseCase: userUseCase,
	}
}

func profileResponse(user *entities.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// GetProfile обрабатывает запрос на получение профиля пользователя.
func (h *Handler) GetProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetProfile)

	user, err := h.userUseCase.GetProfile(requestCtx, middleware.UserID(ctx))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(profileResponse(user)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// UpdateProfile обрабатывает запрос на частичное обновление профиля.
func (h *Handler) UpdateProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateProfile)

	var req dto.UpdateProfileRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if req.Email == nil && req.Username == nil {
		return httperr.Send(ctx, http.StatusBadRequest, "at least one field must be provided")
	}

	user, err := h.userUseCase.UpdateProfile(requestCtx, middleware.UserID(ctx), &req)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(profileResponse(user)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// ChangePassword обрабатывает запрос на смену пароля.
// Успешная смена отзывает все refresh-токены пользователя.
func (h *Handler) ChangePassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerChangePassword)

	var req dto.ChangePasswordRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return httperr.Send(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return httperr.Send(ctx, http.StatusBadRequest, "current and new passwords are required")
	}

	if err := h.userUseCase.ChangePassword(requestCtx, middleware.UserID(ctx), &req); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return ctx.SendStatus(http.StatusNoContent)
}
