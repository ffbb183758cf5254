package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notekeep/internal/app/dto"
	"notekeep/internal/domain/entities"
	"notekeep/internal/domain/services"
	"notekeep/internal/ports/api"
	"notekeep/internal/ports/repositories"
	svc "notekeep/internal/ports/services"
	"notekeep/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodGetProfile     = "GetProfile"
	methodUpdateProfile  = "UpdateProfile"
	methodChangePassword = "ChangePassword"

	msgFetchingProfile     = "fetching user profile"
	msgUpdatingProfile     = "updating user profile"
	msgProfileUpdated      = "user profile updated"
	msgChangingPassword    = "changing user password"
	msgPasswordChanged     = "user password changed"
	msgWrongCurrentPass    = "current password does not match"
	msgErrFindingProfile   = "failed to find user"
	msgErrUpdatingUser     = "failed to update user"
	msgErrUpdatingPassword = "failed to update password"
	msgErrRevokingTokens   = "failed to revoke user tokens"

	errCtxFindingProfile    = "finding user"
	errCtxUpdatingUser      = "updating user"
	errCtxCheckingEmail     = "checking email uniqueness"
	errCtxValidatingNewPass = "validating new password"
	errCtxUpdatingPassword  = "updating password"
	errCtxRevokingTokens    = "revoking user tokens"
)

// UserUseCaseImpl реализует интерфейс api.UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
}

// NewUserUseCase создает новый экземпляр сценариев работы с профилем.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
	}
}

// GetProfile возвращает профиль пользователя.
func (u *UserUseCaseImpl) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetProfile), zap.String("userID", userID))
	log.Debug(ctx, msgFetchingProfile)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrFindingProfile, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingProfile, err)
	}

	return user, nil
}

// UpdateProfile обновляет email и/или имя пользователя.
func (u *UserUseCaseImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateProfile), zap.String("userID", userID))
	log.Debug(ctx, msgUpdatingProfile)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingProfile, err)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validateEmail(email); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
		}
		if email != user.Email {
			existing, err := u.userRepo.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
				return nil, fmt.Errorf("%s: %w", errCtxCheckingEmail, err)
			}
			if existing != nil {
				return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
			}
		}
		user.Email = email
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < MinUsernameLength {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
		}
		user.Username = username
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrUpdatingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgProfileUpdated)
	return updated, nil
}

// ChangePassword меняет пароль пользователя после проверки текущего
// и отзывает все выданные refresh токены.
func (u *UserUseCaseImpl) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	log := logger.Log(ctx).With(zap.String("method", methodChangePassword), zap.String("userID", userID))
	log.Debug(ctx, msgChangingPassword)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxFindingProfile, err)
	}

	valid, err := u.passwordSvc.Verify(ctx, req.CurrentPassword, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgWrongCurrentPass)
		return fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidPassword)
	}

	if err := validatePassword(req.NewPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingNewPass, err)
	}

	hash, err := u.passwordSvc.Hash(ctx, req.NewPassword)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	if err := u.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		log.Error(ctx, msgErrUpdatingPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxUpdatingPassword, err)
	}

	if err := u.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		log.Error(ctx, msgErrRevokingTokens, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingTokens, err)
	}

	log.Info(ctx, msgPasswordChanged)
	return nil
}
