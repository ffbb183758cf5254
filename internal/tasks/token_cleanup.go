// Package tasks содержит фоновые задачи обслуживания сервиса.
package tasks

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"notekeep/internal/ports/repositories"
	"notekeep/pkg/logger"
)

// Константы для логирования.
const (
	LogCleanupScheduled = "refresh token cleanup scheduled"
	LogCleanupStarted   = "refresh token cleanup started"
	LogCleanupFinished  = "refresh token cleanup finished"
	LogCleanupStopped   = "refresh token cleanup stopped"

	ErrScheduleCleanup = "failed to schedule token cleanup"
	ErrRunCleanup      = "failed to clean up refresh tokens"
)

// TokenCleanup периодически удаляет истекшие и отозванные refresh токены.
type TokenCleanup struct {
	tokenRepo repositories.TokenRepository
	schedule  string
	cron      *cron.Cron
}

// NewTokenCleanup создает новую задачу очистки токенов с cron-расписанием.
func NewTokenCleanup(tokenRepo repositories.TokenRepository, schedule string) *TokenCleanup {
	return &TokenCleanup{
		tokenRepo: tokenRepo,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start регистрирует задачу в планировщике и запускает его.
func (t *TokenCleanup) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	_, err := t.cron.AddFunc(t.schedule, func() {
		if err := t.Run(ctx); err != nil {
			log.Error(ctx, ErrRunCleanup, zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrScheduleCleanup, err)
	}

	t.cron.Start()
	log.Info(ctx, LogCleanupScheduled, zap.String("schedule", t.schedule))

	return nil
}

// Run выполняет одну итерацию очистки.
func (t *TokenCleanup) Run(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Debug(ctx, LogCleanupStarted)

	removed, err := t.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrRunCleanup, err)
	}

	log.Info(ctx, LogCleanupFinished, zap.Int64("removed", removed))
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущей итерации.
func (t *TokenCleanup) Stop(ctx context.Context) {
	stopCtx := t.cron.Stop()
	<-stopCtx.Done()
	logger.Log(ctx).Info(ctx, LogCleanupStopped)
}
