package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
	"github.com/wagetrack/wagetrack/internal/dto"
)

// ShiftSvcFacade is the segment ledger state machine: it owns every
// shift/segment mutation and enforces the single-open-segment and
// non-overlap invariants.
type ShiftSvcFacade interface {
	// StartShift opens a work shift with one open work segment at now.
	StartShift(ctx context.Context, actor domain.Actor, req dto.StartShiftRequest) (*domain.Shift, error)

	// PauseSegment closes an open work segment and opens a pause segment at
	// the same instant.
	PauseSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Segment, error)

	// ResumeSegment closes an open pause segment and opens a work segment at
	// the same instant.
	ResumeSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Segment, error)

	// SwitchTask closes whatever segment is open in the shift and opens a new
	// work segment with a fresh description, without stopping the clock.
	SwitchTask(ctx context.Context, actor domain.Actor, shiftID int64, req dto.SwitchTaskRequest) (*domain.Segment, error)

	// StopSegment closes the open segment at now and generates the shift's
	// obligation in the same transaction.
	StopSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Shift, *domain.Obligation, error)

	// ManualCreateShift records a fully specified past shift and generates
	// its obligation.
	ManualCreateShift(ctx context.Context, actor domain.Actor, req dto.ManualCreateShiftRequest) (*domain.Shift, *domain.Obligation, error)

	// RecordTimeOff records a non-work absence over [start, end).
	RecordTimeOff(ctx context.Context, actor domain.Actor, req dto.TimeOffRequest) (*domain.Shift, *domain.Obligation, error)

	// UpdateSegment edits a segment, re-validating overlap at minute
	// granularity against its siblings.
	UpdateSegment(ctx context.Context, actor domain.Actor, segmentID int64, req dto.UpdateSegmentRequest) (*domain.Segment, error)

	// UpdateShift edits a shift's description.
	UpdateShift(ctx context.Context, actor domain.Actor, shiftID int64, req dto.UpdateShiftRequest) (*domain.Shift, error)

	// DeleteSegment removes a segment; removing the last segment removes the
	// shift too. Fails with ErrSettled when the obligation is not unpaid.
	DeleteSegment(ctx context.Context, actor domain.Actor, segmentID int64) error

	// DeleteShift removes a shift, its segments, and its unpaid obligation.
	DeleteShift(ctx context.Context, actor domain.Actor, shiftID int64) error

	// DeleteShifts bulk-removes shifts (admin only).
	DeleteShifts(ctx context.Context, actor domain.Actor, shiftIDs []int64) error

	// GetShift returns one shift with its segments.
	GetShift(ctx context.Context, actor domain.Actor, shiftID int64) (*domain.Shift, error)

	// ListShifts returns a newest-first page of shifts with segments.
	ListShifts(ctx context.Context, actor domain.Actor, params dto.ListShiftsParams) ([]domain.Shift, *string, error)
}
