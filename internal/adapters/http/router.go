// Package http содержит компоненты HTTP сервера.
package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"notekeep/internal/adapters/http/auth"
	"notekeep/internal/adapters/http/categories"
	"notekeep/internal/adapters/http/middleware"
	"notekeep/internal/adapters/http/notes"
	"notekeep/internal/adapters/http/users"
	"notekeep/internal/config"
	"notekeep/internal/ports/api"
	svc "notekeep/internal/ports/services"
	"notekeep/pkg/metrics"
)

// RouterDeps объединяет зависимости маршрутизатора.
type RouterDeps struct {
	AuthUseCase       api.AuthUseCase
	UserUseCase       api.UserUseCase
	NotesUseCase      api.NotesUseCase
	CategoriesUseCase api.CategoriesUseCase
	TokenService      svc.TokenService
	Metrics           *metrics.Metrics
	LimiterConfig     *config.LimiterConfig
	HealthCheck       func(context.Context) error
}

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, deps *RouterDeps) {
	authHandler := auth.NewHandler(deps.AuthUseCase)
	userHandler := users.NewHandler(deps.UserUseCase)
	notesHandler := notes.NewHandler(deps.NotesUseCase)
	categoriesHandler := categories.NewHandler(deps.CategoriesUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		app.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	app.Get("/health", func(ctx fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(ctx.Context()); err != nil {
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
				})
			}
		}
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные, с ограничением частоты запросов).
	authRoutes := apiV1.Group("/auth")
	if deps.LimiterConfig != nil {
		authRoutes.Use(middleware.NewLimiterMiddleware(deps.LimiterConfig))
	}
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/token", authHandler.Login)
	authRoutes.Post("/token/refresh", authHandler.RefreshTokens)
	authRoutes.Post("/logout", authHandler.Logout)

	authMiddleware := middleware.NewAuthMiddleware(deps.TokenService)

	// Маршруты профиля (требуют авторизации).
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(authMiddleware)
	userRoutes.Get("/profile", userHandler.GetProfile)
	userRoutes.Patch("/profile", userHandler.UpdateProfile)
	userRoutes.Post("/change-password", userHandler.ChangePassword)
	userRoutes.Get("/stats", notesHandler.Stats)

	// Маршруты заметок (требуют авторизации). Статичные пути
	// регистрируются раньше параметризованных.
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(authMiddleware)
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/pinned", notesHandler.ListPinnedNotes)
	notesRoutes.Get("/recent", notesHandler.ListRecentNotes)
	notesRoutes.Get("/stats", notesHandler.Stats)
	notesRoutes.Get("/:note_id", notesHandler.GetNote)
	notesRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Put("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)
	notesRoutes.Post("/:note_id/pin", notesHandler.PinNote)
	notesRoutes.Post("/:note_id/unpin", notesHandler.UnpinNote)
	notesRoutes.Post("/:note_id/move", notesHandler.MoveNote)

	// Маршруты категорий (требуют авторизации).
	categoriesRoutes := apiV1.Group("/categories")
	categoriesRoutes.Use(authMiddleware)
	categoriesRoutes.Post("/", categoriesHandler.CreateCategory)
	categoriesRoutes.Get("/", categoriesHandler.ListCategories)
	categoriesRoutes.Get("/:category_id", categoriesHandler.GetCategory)
	categoriesRoutes.Patch("/:category_id", categoriesHandler.UpdateCategory)
	categoriesRoutes.Put("/:category_id", categoriesHandler.UpdateCategory)
	categoriesRoutes.Delete("/:category_id", categoriesHandler.DeleteCategory)
	categoriesRoutes.Get("/:category_id/notes", categoriesHandler.ListCategoryNotes)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
