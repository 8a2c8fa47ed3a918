package repositories

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// EmploymentRepository defines read access to employment records. Records are
// created by admin actions outside the ledger core and are read-only here.
type EmploymentRepository interface {
	// FindActiveByWorker returns the worker's active employment record, or
	// ErrNotFound when the worker is not currently employed.
	FindActiveByWorker(ctx context.Context, workerID int64) (*domain.EmploymentRecord, error)

	// ListByWorker returns all of a worker's employment records, newest first.
	ListByWorker(ctx context.Context, workerID int64) ([]domain.EmploymentRecord, error)
}
