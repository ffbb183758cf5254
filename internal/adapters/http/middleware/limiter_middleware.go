// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	"notekeep/internal/adapters/http/httperr"
	"notekeep/internal/config"
)

// ErrorTooManyRequests - сообщение при превышении лимита запросов.
const ErrorTooManyRequests = "too many requests, try again later"

// NewLimiterMiddleware создает промежуточное ПО ограничения частоты запросов.
// Лимит считается по IP клиента. При выключенном лимитере запросы
// пропускаются без учета.
func NewLimiterMiddleware(cfg *config.LimiterConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(ctx fiber.Ctx) error {
			return ctx.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		KeyGenerator: func(ctx fiber.Ctx) string {
			return ctx.IP()
		},
		LimitReached: func(ctx fiber.Ctx) error {
			return httperr.Send(ctx, fiber.StatusTooManyRequests, ErrorTooManyRequests)
		},
	})
}
