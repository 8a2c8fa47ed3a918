package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// EmploymentSvcFacade looks up employment records. It never computes anything
// itself; the obligation generator reads rates through it.
type EmploymentSvcFacade interface {
	// ActiveForWorker returns the worker's active record or ErrNotFound.
	ActiveForWorker(ctx context.Context, actor domain.Actor, workerID int64) (*domain.EmploymentRecord, error)
}
