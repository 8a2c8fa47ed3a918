package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

type employmentService struct {
	employmentRepo portsrepo.EmploymentRepository
}

// NewEmploymentService creates the employment lookup service.
func NewEmploymentService(employmentRepo portsrepo.EmploymentRepository) portssvc.EmploymentSvcFacade {
	return &employmentService{employmentRepo: employmentRepo}
}

var _ portssvc.EmploymentSvcFacade = (*employmentService)(nil)

// ActiveForWorker returns the worker's active employment record. Non-admins
// only see their own.
func (s *employmentService) ActiveForWorker(ctx context.Context, actor domain.Actor, workerID int64) (*domain.EmploymentRecord, error) {
	if !actor.CanAccessWorker(workerID) {
		return nil, apperrors.ErrForbidden
	}
	return s.employmentRepo.FindActiveByWorker(ctx, workerID)
}
