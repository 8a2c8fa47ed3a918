package repositories

import (
	"context"
	"time"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// ListShiftsParams holds filters for the grouped-by-shift listing.
type ListShiftsParams struct {
	WorkerID  *int64
	Limit     int
	NextToken *string
}

// ShiftReader defines read operations for shift and segment data.
type ShiftReader interface {
	// FindShiftByID retrieves a shift with its segments ordered by start time.
	FindShiftByID(ctx context.Context, shiftID int64) (*domain.Shift, error)

	// FindSegmentByID retrieves a single segment.
	FindSegmentByID(ctx context.Context, segmentID int64) (*domain.Segment, error)

	// FindOpenSegmentForWorker returns the worker's open segment anywhere in
	// the ledger, or ErrNotFound when the worker has no running clock.
	FindOpenSegmentForWorker(ctx context.Context, workerID int64) (*domain.Segment, error)

	// ListShifts retrieves a newest-first page of shifts with their segments
	// using token-based pagination.
	ListShifts(ctx context.Context, params ListShiftsParams) ([]domain.Shift, *string, error)

	// ListShiftsByWorker retrieves all of a worker's shifts with segments,
	// optionally restricted to one kind. Used for overlap validation.
	ListShiftsByWorker(ctx context.Context, workerID int64, kind *domain.ShiftKind) ([]domain.Shift, error)

	// ListOpenShifts retrieves every shift that currently has an open segment,
	// with segments populated. Used by the live timer loop.
	ListOpenShifts(ctx context.Context) ([]domain.Shift, error)
}

// ShiftWriter defines write operations for shift and segment data. Methods
// that touch more than one row run inside a single database transaction.
type ShiftWriter interface {
	// CreateShiftWithSegments inserts a shift, its segments, and optionally
	// the obligation generated for it, assigning ids and tracking numbers.
	CreateShiftWithSegments(ctx context.Context, shift domain.Shift, obligation *domain.Obligation) (*domain.Shift, *domain.Obligation, error)

	// CloseAndOpenSegment closes one segment at end and opens a replacement in
	// the same shift atomically (pause, resume, switch).
	CloseAndOpenSegment(ctx context.Context, closeSegmentID int64, end time.Time, open domain.Segment) (*domain.Segment, error)

	// CloseSegmentWithObligation closes the segment at end and, when the
	// closure generated an obligation, persists it in the same transaction.
	CloseSegmentWithObligation(ctx context.Context, segmentID int64, end time.Time, updatedBy int64, obligation *domain.Obligation) (*domain.Obligation, error)

	// UpdateSegment rewrites a segment's fields; when the edit closed the last
	// open segment the generated obligation is persisted in the same
	// transaction.
	UpdateSegment(ctx context.Context, segment domain.Segment, obligation *domain.Obligation) (*domain.Obligation, error)

	// UpdateShift rewrites a shift's description and kind.
	UpdateShift(ctx context.Context, shift domain.Shift) error

	// DeleteSegment removes one segment.
	DeleteSegment(ctx context.Context, segmentID int64) error

	// DeleteShift removes a shift, cascading to its segments and its unpaid
	// obligation.
	DeleteShift(ctx context.Context, shiftID int64) error

	// DeleteShifts bulk-removes shifts with the same cascade rules.
	DeleteShifts(ctx context.Context, shiftIDs []int64) error
}

// ShiftRepositoryFacade combines all shift repository interfaces.
type ShiftRepositoryFacade interface {
	ShiftReader
	ShiftWriter
}
