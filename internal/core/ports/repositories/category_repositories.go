package repositories

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// CategoryRepository defines read access to the category taxonomy.
type CategoryRepository interface {
	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// FindCategoryByID returns one category.
	FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error)

	// FindFirstByClass returns the lowest-id category in the given class, or
	// ErrNotFound when the class has no category configured.
	FindFirstByClass(ctx context.Context, class domain.CategoryClass) (*domain.Category, error)
}
