package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/middleware"
	"github.com/wagetrack/wagetrack/internal/utils"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so login failures are indistinguishable to the caller.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrValidation)

type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates the identity service.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Authenticate verifies a username/password pair.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Login attempt for unknown username", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login attempt with wrong password", slog.Int64("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID returns one user.
func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
