// Package main реализует точку входа сервиса заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeep/internal/adapters/cache"
	httpadapter "notekeep/internal/adapters/http"
	"notekeep/internal/adapters/postgres"
	"notekeep/internal/adapters/services"
	"notekeep/internal/app"
	"notekeep/internal/config"
	"notekeep/internal/db"
	cachePorts "notekeep/internal/ports/cache"
	"notekeep/internal/tasks"
	"notekeep/pkg/logger"
	"notekeep/pkg/metrics"
	"notekeep/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTEKEEP_LOGGER_MODE"
	EnvLoggerLevel = "NOTEKEEP_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitCache            = "failed to initialize cache"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrStartCleanupTask     = "failed to start token cleanup task"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes service started"
	LogServiceShutdownDone = "notes service shutdown complete"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitCache           = "initializing cache"
	LogCacheDisabled       = "cache disabled, requests go directly to the database"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingDB           = "closing database connections"
	LogClosingCache        = "closing cache connection"
	LogStoppingCleanup     = "stopping token cleanup task"
)

// MetricsNamespace - пространство имен Prometheus метрик сервиса.
const MetricsNamespace = "notekeep"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres, cfg.Postgres.MigrationsDir)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		userRepo := repoFactory.UserRepository()
		tokenRepo := repoFactory.TokenRepository()
		noteRepo := repoFactory.NoteRepository()
		categoryRepo := repoFactory.CategoryRepository()

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(
			cfg.JWT.SecretKey,
			cfg.JWT.GetAccessTokenTTL(),
			cfg.JWT.GetRefreshTokenTTL(),
			cfg.JWT.BCryptCost,
		)
		passwordService := serviceFactory.PasswordService()
		tokenService := serviceFactory.TokenService()

		var noteCache cachePorts.Cache
		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache)
			noteCache, err = cache.NewRedisCache(ctx, &cfg.Redis)
			if err != nil {
				log.Error(ctx, ErrInitCache, zap.Error(err))
				exitCode = 1
				return
			}
		} else {
			log.Info(ctx, LogCacheDisabled)
		}

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(userRepo, tokenRepo, passwordService, tokenService)
		userUseCase := app.NewUserUseCase(userRepo, tokenRepo, passwordService)
		notesUseCase := app.NewNotesUseCase(noteRepo, categoryRepo, noteCache)
		categoriesUseCase := app.NewCategoriesUseCase(categoryRepo, noteRepo, noteCache)

		tokenCleanup := tasks.NewTokenCleanup(tokenRepo, cfg.Tasks.TokenCleanupSchedule)
		if err := tokenCleanup.Start(ctx); err != nil {
			log.Error(ctx, ErrStartCleanupTask, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitHTTPServer)
		httpMetrics := metrics.New(MetricsNamespace)
		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpadapter.SetupRouter(fiberApp, &httpadapter.RouterDeps{
			AuthUseCase:       authUseCase,
			UserUseCase:       userUseCase,
			NotesUseCase:      notesUseCase,
			CategoriesUseCase: categoriesUseCase,
			TokenService:      tokenService,
			Metrics:           httpMetrics,
			LimiterConfig:     &cfg.Limiter,
			HealthCheck:       database.Ping,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingCleanup)
				tokenCleanup.Stop(ctx)
				return nil
			},
			func(ctx context.Context) error {
				if noteCache == nil {
					return nil
				}
				log.Info(ctx, LogClosingCache)
				return noteCache.Close()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
