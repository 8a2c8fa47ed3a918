package repositories

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// UserRepository defines read access to the identity data the ledger consumes.
type UserRepository interface {
	// FindUserByID returns one user.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByUsername returns one user by login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListAdminIDs returns the ids of all admin users. Used to resolve push
	// event recipients.
	ListAdminIDs(ctx context.Context) ([]int64, error)

	// FindEmployer returns the employer account, or ErrNotFound when none is
	// configured.
	FindEmployer(ctx context.Context) (*domain.User, error)
}
