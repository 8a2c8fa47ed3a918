package repositories

import (
	"context"
	"time"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// ListObligationsParams holds filters for the obligation listing.
type ListObligationsParams struct {
	WorkerID  *int64
	Status    *domain.ObligationStatus
	Class     *domain.CategoryClass
	Limit     int
	NextToken *string
}

// ObligationReader defines read operations for obligation data.
type ObligationReader interface {
	// FindObligationByID retrieves one obligation with its class resolved.
	FindObligationByID(ctx context.Context, obligationID int64) (*domain.Obligation, error)

	// FindObligationByShiftID retrieves the obligation generated for a shift,
	// or ErrNotFound when the shift never produced one.
	FindObligationByShiftID(ctx context.Context, shiftID int64) (*domain.Obligation, error)

	// ListObligations retrieves a newest-first page of obligations.
	ListObligations(ctx context.Context, params ListObligationsParams) ([]domain.Obligation, *string, error)
}

// ObligationWriter defines write operations for obligation data.
type ObligationWriter interface {
	// SaveObligation inserts an obligation and assigns its tracking number in
	// the same transaction.
	SaveObligation(ctx context.Context, obligation domain.Obligation) (*domain.Obligation, error)

	// MarkPaidAndSettle flips an unpaid obligation to paid and, when it is
	// debt-class, offsets every earlier unpaid salary/expense obligation with
	// the same payer/recipient pair in the same transaction. It returns the
	// updated obligation and the ids of the offset rows.
	MarkPaidAndSettle(ctx context.Context, obligationID int64, updatedBy int64, at time.Time) (*domain.Obligation, []int64, error)

	// DeleteObligation removes an obligation while it is still unpaid.
	DeleteObligation(ctx context.Context, obligationID int64) error
}

// ObligationRepositoryFacade combines all obligation repository interfaces.
type ObligationRepositoryFacade interface {
	ObligationReader
	ObligationWriter
}
