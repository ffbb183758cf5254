package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notekeep/internal/domain/services"
	"notekeep/internal/tasks"
)

var errDatabaseOperation = errors.New("database operation failed")

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) FindByToken(ctx context.Context, token string) (*services.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RefreshToken), args.Error(1)
}

func (m *mockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) RevokeAllUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestTokenCleanup_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("removes expired tokens", func(t *testing.T) {
		tokenRepo := new(mockTokenRepository)
		tokenRepo.On("CleanupExpiredTokens", ctx).Return(int64(42), nil)

		cleanup := tasks.NewTokenCleanup(tokenRepo, "0 3 * * *")

		require.NoError(t, cleanup.Run(ctx))
		tokenRepo.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		tokenRepo := new(mockTokenRepository)
		tokenRepo.On("CleanupExpiredTokens", ctx).Return(int64(0), errDatabaseOperation)

		cleanup := tasks.NewTokenCleanup(tokenRepo, "0 3 * * *")

		err := cleanup.Run(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabaseOperation)
	})
}

func TestTokenCleanup_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("valid schedule", func(t *testing.T) {
		tokenRepo := new(mockTokenRepository)
		cleanup := tasks.NewTokenCleanup(tokenRepo, "0 3 * * *")

		require.NoError(t, cleanup.Start(ctx))
		cleanup.Stop(ctx)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		tokenRepo := new(mockTokenRepository)
		cleanup := tasks.NewTokenCleanup(tokenRepo, "not-a-schedule")

		err := cleanup.Start(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), tasks.ErrScheduleCleanup)
	})

	t.Run("frequent schedule fires the job", func(t *testing.T) {
		tokenRepo := new(mockTokenRepository)
		fired := make(chan struct{}, 1)
		tokenRepo.On("CleanupExpiredTokens", ctx).Return(int64(1), nil).Run(func(_ mock.Arguments) {
			select {
			case fired <- struct{}{}:
			default:
			}
		})

		cleanup := tasks.NewTokenCleanup(tokenRepo, "@every 10ms")
		require.NoError(t, cleanup.Start(ctx))
		defer cleanup.Stop(ctx)

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("cleanup job did not fire")
		}
	})
}
