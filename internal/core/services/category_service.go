package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

type categoryService struct {
	categoryRepo portsrepo.CategoryRepository
}

// NewCategoryService creates the category taxonomy service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepository) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}
