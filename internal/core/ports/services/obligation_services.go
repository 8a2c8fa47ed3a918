package services

import (
	"context"
	"time"

	"github.com/wagetrack/wagetrack/internal/core/domain"
	"github.com/wagetrack/wagetrack/internal/dto"
)

// ObligationSvcFacade owns obligation generation, manual entry, and the
// payment/auto-settlement transition.
type ObligationSvcFacade interface {
	// BuildForShift prices a closed shift into an unsaved obligation using the
	// worker's active employment record. It returns (nil, nil) when the shift
	// generates nothing (unpaid leave, or a computed amount of zero).
	BuildForShift(ctx context.Context, shift domain.Shift, occurredAt time.Time, generatedBy int64) (*domain.Obligation, error)

	// CreateObligation records a manually entered obligation (admin only).
	CreateObligation(ctx context.Context, actor domain.Actor, req dto.CreateObligationRequest) (*domain.Obligation, error)

	// PayObligation marks an unpaid obligation paid; for debt-class rows the
	// auto-settlement scan runs in the same transaction. Returns the updated
	// obligation and the ids of the offset rows.
	PayObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, []int64, error)

	// DeleteObligation removes an obligation while it is still unpaid.
	DeleteObligation(ctx context.Context, actor domain.Actor, obligationID int64) error

	// GetObligation returns one obligation.
	GetObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, error)

	// ListObligations returns a newest-first page of obligations.
	ListObligations(ctx context.Context, actor domain.Actor, params dto.ListObligationsParams) ([]domain.Obligation, *string, error)
}
