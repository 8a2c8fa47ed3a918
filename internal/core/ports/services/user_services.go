package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// UserSvcFacade is the identity collaborator contract consumed by the core.
type UserSvcFacade interface {
	// Authenticate verifies a username/password pair and returns the user.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID returns one user.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// CategorySvcFacade exposes the category taxonomy.
type CategorySvcFacade interface {
	// ListCategories returns all categories with their classes.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
