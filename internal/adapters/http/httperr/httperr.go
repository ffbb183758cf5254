// Package httperr отображает доменные ошибки на HTTP статусы и ответы.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"notekeep/internal/app"
	"notekeep/internal/domain/entities"
	"notekeep/internal/domain/services"
)

// Status возвращает HTTP статус для доменной ошибки.
// Неизвестные ошибки отображаются на 500.
func Status(err error) int {
	switch {
	case errors.Is(err, entities.ErrNoteNotFound),
		errors.Is(err, entities.ErrCategoryNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrRevokedRefreshToken),
		errors.Is(err, services.ErrInvalidJWTToken),
		errors.Is(err, services.ErrExpiredJWTToken),
		errors.Is(err, services.ErrInvalidPassword):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, entities.ErrCategoryNameTaken),
		errors.Is(err, entities.ErrCategoryNotEmpty):
		return http.StatusConflict

	case errors.Is(err, entities.ErrEmptyNoteTitle),
		errors.Is(err, entities.ErrNoteTitleTooLong),
		errors.Is(err, entities.ErrEmptyNoteContent),
		errors.Is(err, entities.ErrEmptyCategoryName),
		errors.Is(err, entities.ErrCategoryNameTooLong),
		errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrEmptyUsername),
		errors.Is(err, entities.ErrPasswordTooShort),
		errors.Is(err, entities.ErrPasswordTooWeak),
		errors.Is(err, app.ErrInvalidPage),
		errors.Is(err, app.ErrInvalidPageSize),
		errors.Is(err, app.ErrInvalidOrdering):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// Send отправляет ответ с ошибкой в формате {"error": message}.
func Send(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Respond отображает доменную ошибку на HTTP ответ.
// Текст внутренних ошибок не раскрывается клиенту.
func Respond(ctx fiber.Ctx, err error) error {
	statusCode := Status(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal server error"
	}
	return Send(ctx, statusCode, message)
}
