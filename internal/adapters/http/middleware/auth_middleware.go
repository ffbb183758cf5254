// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeep/internal/adapters/http/httperr"
	svc "notekeep/internal/ports/services"
	"notekeep/pkg/logger"
)

// UserIDKey - ключ Locals, под которым хранится идентификатор
// аутентифицированного пользователя.
const UserIDKey = "userID"

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
)

// NewAuthMiddleware создает промежуточное ПО проверки Bearer токена.
// Идентификатор пользователя из валидного токена кладется в Locals.
func NewAuthMiddleware(tokenService svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return httperr.Send(ctx, fiber.StatusUnauthorized, ErrorNoAuthHeader)
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return httperr.Send(ctx, fiber.StatusUnauthorized, ErrorInvalidTokenFormat)
		}

		userID, err := tokenService.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, "access token rejected", zap.Error(err))
			return httperr.Respond(ctx, err)
		}

		ctx.Locals(UserIDKey, userID)

		return ctx.Next()
	}
}

// UserID извлекает идентификатор пользователя, установленный NewAuthMiddleware.
func UserID(ctx fiber.Ctx) string {
	userID, _ := ctx.Locals(UserIDKey).(string)
	return userID
}
