package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/dto"
	"github.com/wagetrack/wagetrack/internal/middleware"
)

var (
	ErrNotEmployed    = fmt.Errorf("%w: worker has no active employment record", apperrors.ErrValidation)
	ErrAlreadyActive  = fmt.Errorf("%w: worker already has an open shift", apperrors.ErrConflict)
	ErrNotActive      = fmt.Errorf("%w: segment is not open", apperrors.ErrConflict)
	ErrAlreadyPaused  = fmt.Errorf("%w: segment is already a pause", apperrors.ErrConflict)
	ErrNotPaused      = fmt.Errorf("%w: segment is not a pause", apperrors.ErrConflict)
	ErrSegmentOverlap = fmt.Errorf("%w: segments overlap", apperrors.ErrConflict)
	ErrShiftOverlap   = fmt.Errorf("%w: shift overlaps an existing shift", apperrors.ErrConflict)
	ErrTimeOffTooLong = fmt.Errorf("%w: time off span exceeds 365 days", apperrors.ErrValidation)
	ErrEndBeforeStart = fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
)

// shiftService is the segment ledger state machine.
type shiftService struct {
	shiftRepo      portsrepo.ShiftRepositoryFacade
	obligationRepo portsrepo.ObligationReader
	obligationSvc  portssvc.ObligationSvcFacade
	employmentRepo portsrepo.EmploymentRepository
	userRepo       portsrepo.UserRepository
	publisher      portssvc.EventPublisher
	workerLocks    *keyedMutex
	now            func() time.Time
}

// NewShiftService creates the segment ledger service. nowFn may be nil, in
// which case time.Now (UTC) is used.
func NewShiftService(
	shiftRepo portsrepo.ShiftRepositoryFacade,
	obligationRepo portsrepo.ObligationReader,
	obligationSvc portssvc.ObligationSvcFacade,
	employmentRepo portsrepo.EmploymentRepository,
	userRepo portsrepo.UserRepository,
	publisher portssvc.EventPublisher,
	nowFn func() time.Time,
) portssvc.ShiftSvcFacade {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &shiftService{
		shiftRepo:      shiftRepo,
		obligationRepo: obligationRepo,
		obligationSvc:  obligationSvc,
		employmentRepo: employmentRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		workerLocks:    newKeyedMutex(),
		now:            nowFn,
	}
}

var _ portssvc.ShiftSvcFacade = (*shiftService)(nil)

// publish sends an event to the affected worker plus all admins. Delivery is
// best-effort; recipient resolution failures are logged and swallowed.
func (s *shiftService) publish(ctx context.Context, event domain.Event, workerID int64) {
	if s.publisher == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		logger.Warn("Failed to resolve event recipients", slog.String("error", err.Error()))
		adminIDs = nil
	}
	recipients := append([]int64{workerID}, adminIDs...)
	s.publisher.Publish(event, recipients)
}

// StartShift opens a work shift with one open work segment at now.
func (s *shiftService) StartShift(ctx context.Context, actor domain.Actor, req dto.StartShiftRequest) (*domain.Shift, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	workerID := actor.UserID
	if req.WorkerID != nil {
		workerID = *req.WorkerID
	}
	if !actor.CanAccessWorker(workerID) {
		return nil, apperrors.ErrForbidden
	}

	unlock := s.workerLocks.Lock(workerID)
	defer unlock()

	if err := s.requireEmployed(ctx, workerID); err != nil {
		return nil, err
	}

	// One open segment per worker across all shifts.
	if _, err := s.shiftRepo.FindOpenSegmentForWorker(ctx, workerID); err == nil {
		return nil, ErrAlreadyActive
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for open segments: %w", err)
	}

	now := s.now()
	audit := s.audit(actor.UserID, now)
	shift := domain.Shift{
		WorkerID:    workerID,
		Kind:        domain.ShiftWork,
		Description: req.Description,
		Segments: []domain.Segment{{
			StartTime:   now,
			Kind:        domain.SegmentWork,
			Description: req.Description,
			AuditFields: audit,
		}},
		AuditFields: audit,
	}

	saved, _, err := s.shiftRepo.CreateShiftWithSegments(ctx, shift, nil)
	if err != nil {
		logger.Error("Failed to start shift", slog.String("error", err.Error()), slog.Int64("worker_id", workerID))
		return nil, fmt.Errorf("failed to start shift: %w", err)
	}

	logger.Info("Shift started", slog.Int64("shift_id", saved.ShiftID), slog.Int64("worker_id", workerID))
	s.publish(ctx, domain.Event{Type: domain.EventShiftStarted, Payload: dto.ToShiftResponse(saved, now)}, workerID)
	return saved, nil
}

// PauseSegment closes an open work segment and opens a pause at the same
// instant.
func (s *shiftService) PauseSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Segment, error) {
	return s.flipSegment(ctx, actor, segmentID, domain.SegmentWork, domain.SegmentPause)
}

// ResumeSegment closes an open pause segment and opens a work segment at the
// same instant.
func (s *shiftService) ResumeSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Segment, error) {
	return s.flipSegment(ctx, actor, segmentID, domain.SegmentPause, domain.SegmentWork)
}

// flipSegment is the shared pause/resume transition: close the open segment
// of kind from and open a segment of kind to at the same instant.
func (s *shiftService) flipSegment(ctx context.Context, actor domain.Actor, segmentID int64, from, to domain.SegmentKind) (*domain.Segment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shift, err := s.shiftForSegment(ctx, actor, segmentID)
	if err != nil {
		return nil, err
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	segment, err := s.shiftRepo.FindSegmentByID(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if !segment.Open() {
		return nil, ErrNotActive
	}
	if segment.Kind != from {
		if from == domain.SegmentWork {
			return nil, ErrAlreadyPaused
		}
		return nil, ErrNotPaused
	}

	now := s.now()
	opened, err := s.shiftRepo.CloseAndOpenSegment(ctx, segmentID, now, domain.Segment{
		ShiftID:     segment.ShiftID,
		StartTime:   now,
		Kind:        to,
		Description: segment.Description,
		AuditFields: s.audit(actor.UserID, now),
	})
	if err != nil {
		logger.Error("Failed to flip segment", slog.String("error", err.Error()), slog.Int64("segment_id", segmentID))
		return nil, fmt.Errorf("failed to flip segment: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventSegmentUpdated, Payload: idPayload("segmentID", segmentID, "shiftID", segment.ShiftID)}, shift.WorkerID)
	s.publish(ctx, domain.Event{Type: domain.EventSegmentCreated, Payload: dto.ToSegmentResponse(*opened)}, shift.WorkerID)
	return opened, nil
}

// SwitchTask closes whatever segment is open in the shift and opens a new
// work segment without stopping the clock.
func (s *shiftService) SwitchTask(ctx context.Context, actor domain.Actor, shiftID int64, req dto.SwitchTaskRequest) (*domain.Segment, error) {
	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessWorker(shift.WorkerID) {
		return nil, apperrors.ErrForbidden
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	shift, err = s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	open := shift.OpenSegment()
	if open == nil {
		return nil, ErrNotActive
	}

	now := s.now()
	opened, err := s.shiftRepo.CloseAndOpenSegment(ctx, open.SegmentID, now, domain.Segment{
		ShiftID:     shiftID,
		StartTime:   now,
		Kind:        domain.SegmentWork,
		Description: req.Description,
		AuditFields: s.audit(actor.UserID, now),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to switch task: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventSegmentCreated, Payload: dto.ToSegmentResponse(*opened)}, shift.WorkerID)
	return opened, nil
}

// StopSegment closes the open segment at now and generates the shift's
// obligation in the same transaction. The closure is all-or-nothing: a
// generation failure (no salary category) rolls the whole stop back.
func (s *shiftService) StopSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Shift, *domain.Obligation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shift, err := s.shiftForSegment(ctx, actor, segmentID)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	shift, err = s.shiftRepo.FindShiftByID(ctx, shift.ShiftID)
	if err != nil {
		return nil, nil, err
	}
	open := shift.OpenSegment()
	if open == nil || open.SegmentID != segmentID {
		return nil, nil, ErrNotActive
	}

	now := s.now()

	// Price the shift as it will look once the segment is closed.
	closed := *shift
	closed.Segments = make([]domain.Segment, len(shift.Segments))
	copy(closed.Segments, shift.Segments)
	for i := range closed.Segments {
		if closed.Segments[i].SegmentID == segmentID {
			end := now
			closed.Segments[i].EndTime = &end
		}
	}

	obligation, err := s.obligationSvc.BuildForShift(ctx, closed, now, actor.UserID)
	if err != nil {
		logger.Error("Obligation generation failed on stop", slog.String("error", err.Error()), slog.Int64("shift_id", shift.ShiftID))
		return nil, nil, err
	}

	savedObligation, err := s.shiftRepo.CloseSegmentWithObligation(ctx, segmentID, now, actor.UserID, obligation)
	if err != nil {
		logger.Error("Failed to stop shift", slog.String("error", err.Error()), slog.Int64("shift_id", shift.ShiftID))
		return nil, nil, fmt.Errorf("failed to stop shift: %w", err)
	}

	logger.Info("Shift stopped", slog.Int64("shift_id", shift.ShiftID), slog.Int64("worker_id", shift.WorkerID))
	s.publish(ctx, domain.Event{Type: domain.EventShiftStopped, Payload: dto.ToShiftResponse(&closed, now)}, shift.WorkerID)
	if savedObligation != nil {
		s.publish(ctx, domain.Event{Type: domain.EventObligationCreated, Payload: dto.ToObligationResponse(savedObligation)}, shift.WorkerID)
	}
	return &closed, savedObligation, nil
}

// ManualCreateShift records a fully specified past shift and generates its
// obligation in the same transaction.
func (s *shiftService) ManualCreateShift(ctx context.Context, actor domain.Actor, req dto.ManualCreateShiftRequest) (*domain.Shift, *domain.Obligation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Kind.Valid() {
		return nil, nil, fmt.Errorf("%w: unsupported shift kind %q", apperrors.ErrValidation, req.Kind)
	}
	if !actor.CanAccessWorker(req.WorkerID) {
		return nil, nil, apperrors.ErrForbidden
	}

	if req.Kind != domain.ShiftWork {
		if req.StartTime == nil || req.EndTime == nil {
			return nil, nil, fmt.Errorf("%w: startTime and endTime are required for non-work shifts", apperrors.ErrValidation)
		}
		return s.RecordTimeOff(ctx, actor, dto.TimeOffRequest{
			WorkerID:    req.WorkerID,
			Kind:        req.Kind,
			StartTime:   *req.StartTime,
			EndTime:     *req.EndTime,
			Description: req.Description,
		})
	}

	if len(req.Segments) == 0 {
		return nil, nil, fmt.Errorf("%w: a work shift requires at least one segment", apperrors.ErrValidation)
	}

	unlock := s.workerLocks.Lock(req.WorkerID)
	defer unlock()

	now := s.now()
	audit := s.audit(actor.UserID, now)
	segments := make([]domain.Segment, len(req.Segments))
	for i, segReq := range req.Segments {
		if !segReq.Kind.Valid() {
			return nil, nil, fmt.Errorf("%w: unsupported segment kind %q", apperrors.ErrValidation, segReq.Kind)
		}
		if !segReq.EndTime.After(segReq.StartTime) {
			return nil, nil, ErrEndBeforeStart
		}
		end := segReq.EndTime
		segments[i] = domain.Segment{
			StartTime:   segReq.StartTime,
			EndTime:     &end,
			Kind:        segReq.Kind,
			Description: segReq.Description,
			AuditFields: audit,
		}
	}

	// Pairwise overlap within the new shift, at creation granularity.
	for i := range segments {
		for j := i + 1; j < len(segments); j++ {
			if domain.SegmentsOverlap(segments[i], segments[j], domain.CreateOverlapGranularity) {
				return nil, nil, ErrSegmentOverlap
			}
		}
	}

	if err := s.checkWorkShiftOverlap(ctx, req.WorkerID, segments, now); err != nil {
		return nil, nil, err
	}

	shift := domain.Shift{
		WorkerID:    req.WorkerID,
		Kind:        domain.ShiftWork,
		Description: req.Description,
		Segments:    segments,
		AuditFields: audit,
	}

	occurredAt := segments[0].StartTime
	for _, seg := range segments {
		if seg.StartTime.Before(occurredAt) {
			occurredAt = seg.StartTime
		}
	}

	obligation, err := s.obligationSvc.BuildForShift(ctx, shift, occurredAt, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	savedShift, savedObligation, err := s.shiftRepo.CreateShiftWithSegments(ctx, shift, obligation)
	if err != nil {
		logger.Error("Failed to create manual shift", slog.String("error", err.Error()), slog.Int64("worker_id", req.WorkerID))
		return nil, nil, fmt.Errorf("failed to create manual shift: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventShiftUpdated, Payload: dto.ToShiftResponse(savedShift, now)}, req.WorkerID)
	if savedObligation != nil {
		s.publish(ctx, domain.Event{Type: domain.EventObligationCreated, Payload: dto.ToObligationResponse(savedObligation)}, req.WorkerID)
	}
	return savedShift, savedObligation, nil
}

// RecordTimeOff records a non-work absence over [start, end).
func (s *shiftService) RecordTimeOff(ctx context.Context, actor domain.Actor, req dto.TimeOffRequest) (*domain.Shift, *domain.Obligation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Kind.IsAbsence() {
		return nil, nil, fmt.Errorf("%w: time off kind must be a non-work kind, got %q", apperrors.ErrValidation, req.Kind)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, nil, ErrEndBeforeStart
	}
	if req.EndTime.Sub(req.StartTime) > 365*24*time.Hour {
		return nil, nil, ErrTimeOffTooLong
	}
	if !actor.CanAccessWorker(req.WorkerID) {
		return nil, nil, apperrors.ErrForbidden
	}

	unlock := s.workerLocks.Lock(req.WorkerID)
	defer unlock()

	// Reject a second absence of the same kind overlapping [start, end).
	kind := req.Kind
	existing, err := s.shiftRepo.ListShiftsByWorker(ctx, req.WorkerID, &kind)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing time off: %w", err)
	}
	now := s.now()
	for _, sh := range existing {
		start, end := sh.Span(now)
		if domain.IntervalsOverlap(req.StartTime, req.EndTime, start, end, domain.CreateOverlapGranularity) {
			return nil, nil, ErrShiftOverlap
		}
	}

	audit := s.audit(actor.UserID, now)
	end := req.EndTime
	shift := domain.Shift{
		WorkerID:    req.WorkerID,
		Kind:        req.Kind,
		Description: req.Description,
		Segments: []domain.Segment{{
			StartTime:   req.StartTime,
			EndTime:     &end,
			Kind:        domain.SegmentWork,
			Description: req.Description,
			AuditFields: audit,
		}},
		AuditFields: audit,
	}

	var obligation *domain.Obligation
	if req.Kind.GeneratesObligation() {
		obligation, err = s.obligationSvc.BuildForShift(ctx, shift, req.StartTime, actor.UserID)
		if err != nil {
			return nil, nil, err
		}
	}

	savedShift, savedObligation, err := s.shiftRepo.CreateShiftWithSegments(ctx, shift, obligation)
	if err != nil {
		logger.Error("Failed to record time off", slog.String("error", err.Error()), slog.Int64("worker_id", req.WorkerID))
		return nil, nil, fmt.Errorf("failed to record time off: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventShiftUpdated, Payload: dto.ToShiftResponse(savedShift, now)}, req.WorkerID)
	if savedObligation != nil {
		s.publish(ctx, domain.Event{Type: domain.EventObligationCreated, Payload: dto.ToObligationResponse(savedObligation)}, req.WorkerID)
	}
	return savedShift, savedObligation, nil
}

// UpdateSegment edits a segment, re-validating overlap against its siblings
// at minute granularity. An edit that closes the last open segment generates
// the shift's obligation in the same transaction.
func (s *shiftService) UpdateSegment(ctx context.Context, actor domain.Actor, segmentID int64, req dto.UpdateSegmentRequest) (*domain.Segment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shift, err := s.shiftForSegment(ctx, actor, segmentID)
	if err != nil {
		return nil, err
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	shift, err = s.shiftRepo.FindShiftByID(ctx, shift.ShiftID)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnsettled(ctx, shift.ShiftID); err != nil {
		return nil, err
	}

	var segment *domain.Segment
	for i := range shift.Segments {
		if shift.Segments[i].SegmentID == segmentID {
			segment = &shift.Segments[i]
		}
	}
	if segment == nil {
		return nil, apperrors.ErrNotFound
	}

	wasClosed := shift.Closed()

	updated := *segment
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = req.EndTime
	}
	if req.Kind != nil {
		if !req.Kind.Valid() {
			return nil, fmt.Errorf("%w: unsupported segment kind %q", apperrors.ErrValidation, *req.Kind)
		}
		updated.Kind = *req.Kind
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if updated.EndTime != nil && !updated.EndTime.After(updated.StartTime) {
		return nil, ErrEndBeforeStart
	}

	// Edits compare at minute granularity: legacy rows recorded without
	// seconds must keep passing the equal-start/equal-end edge case.
	for _, sibling := range shift.Segments {
		if sibling.SegmentID == segmentID {
			continue
		}
		if domain.SegmentsOverlap(updated, sibling, domain.EditOverlapGranularity) {
			return nil, ErrSegmentOverlap
		}
	}

	updated.LastUpdatedAt = s.now()
	updated.LastUpdatedBy = actor.UserID

	// Closing the last open segment closes the shift; price it.
	var obligation *domain.Obligation
	if !wasClosed && updated.EndTime != nil {
		closed := *shift
		closed.Segments = make([]domain.Segment, len(shift.Segments))
		copy(closed.Segments, shift.Segments)
		for i := range closed.Segments {
			if closed.Segments[i].SegmentID == segmentID {
				closed.Segments[i] = updated
			}
		}
		if closed.Closed() {
			if _, err := s.obligationRepo.FindObligationByShiftID(ctx, shift.ShiftID); errors.Is(err, apperrors.ErrNotFound) {
				start, _ := closed.Span(s.now())
				obligation, err = s.obligationSvc.BuildForShift(ctx, closed, start, actor.UserID)
				if err != nil {
					return nil, err
				}
			} else if err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.shiftRepo.UpdateSegment(ctx, updated, obligation); err != nil {
		logger.Error("Failed to update segment", slog.String("error", err.Error()), slog.Int64("segment_id", segmentID))
		return nil, fmt.Errorf("failed to update segment: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventSegmentUpdated, Payload: dto.ToSegmentResponse(updated)}, shift.WorkerID)
	return &updated, nil
}

// UpdateShift edits a shift's description.
func (s *shiftService) UpdateShift(ctx context.Context, actor domain.Actor, shiftID int64, req dto.UpdateShiftRequest) (*domain.Shift, error) {
	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessWorker(shift.WorkerID) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.requireUnsettled(ctx, shiftID); err != nil {
		return nil, err
	}

	if req.Description == nil {
		return shift, nil
	}
	shift.Description = *req.Description
	shift.LastUpdatedAt = s.now()
	shift.LastUpdatedBy = actor.UserID

	if err := s.shiftRepo.UpdateShift(ctx, *shift); err != nil {
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventShiftUpdated, Payload: dto.ToShiftResponse(shift, s.now())}, shift.WorkerID)
	return shift, nil
}

// DeleteSegment removes a segment. Removing the last remaining segment
// removes the shift (and its unpaid obligation) too.
func (s *shiftService) DeleteSegment(ctx context.Context, actor domain.Actor, segmentID int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	shift, err := s.shiftForSegment(ctx, actor, segmentID)
	if err != nil {
		return err
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	shift, err = s.shiftRepo.FindShiftByID(ctx, shift.ShiftID)
	if err != nil {
		return err
	}
	if err := s.requireUnsettled(ctx, shift.ShiftID); err != nil {
		return err
	}

	if len(shift.Segments) <= 1 {
		if err := s.shiftRepo.DeleteShift(ctx, shift.ShiftID); err != nil {
			return fmt.Errorf("failed to delete shift with last segment: %w", err)
		}
		logger.Info("Shift deleted with last segment", slog.Int64("shift_id", shift.ShiftID))
		s.publish(ctx, domain.Event{Type: domain.EventShiftDeleted, Payload: idPayload("shiftID", shift.ShiftID)}, shift.WorkerID)
		return nil
	}

	if err := s.shiftRepo.DeleteSegment(ctx, segmentID); err != nil {
		return fmt.Errorf("failed to delete segment: %w", err)
	}
	s.publish(ctx, domain.Event{Type: domain.EventSegmentDeleted, Payload: idPayload("segmentID", segmentID, "shiftID", shift.ShiftID)}, shift.WorkerID)
	return nil
}

// DeleteShift removes a shift, cascading to its segments and its unpaid
// obligation. A settled obligation blocks the delete.
func (s *shiftService) DeleteShift(ctx context.Context, actor domain.Actor, shiftID int64) error {
	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if !actor.CanAccessWorker(shift.WorkerID) {
		return apperrors.ErrForbidden
	}

	unlock := s.workerLocks.Lock(shift.WorkerID)
	defer unlock()

	if err := s.requireUnsettled(ctx, shiftID); err != nil {
		return err
	}
	if err := s.shiftRepo.DeleteShift(ctx, shiftID); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	s.publish(ctx, domain.Event{Type: domain.EventShiftDeleted, Payload: idPayload("shiftID", shiftID)}, shift.WorkerID)
	return nil
}

// DeleteShifts bulk-removes shifts. Admin only; fails whole when any shift is
// settled so the batch is all-or-nothing.
func (s *shiftService) DeleteShifts(ctx context.Context, actor domain.Actor, shiftIDs []int64) error {
	if !actor.Admin {
		return apperrors.ErrForbidden
	}
	workers := make(map[int64]struct{})
	for _, id := range shiftIDs {
		shift, err := s.shiftRepo.FindShiftByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.requireUnsettled(ctx, id); err != nil {
			return err
		}
		workers[shift.WorkerID] = struct{}{}
	}
	if err := s.shiftRepo.DeleteShifts(ctx, shiftIDs); err != nil {
		return fmt.Errorf("failed to bulk delete shifts: %w", err)
	}
	for workerID := range workers {
		s.publish(ctx, domain.Event{Type: domain.EventShiftsBulkDeleted, Payload: idPayload("shiftIDs", shiftIDs)}, workerID)
	}
	return nil
}

// GetShift returns one shift with its segments.
func (s *shiftService) GetShift(ctx context.Context, actor domain.Actor, shiftID int64) (*domain.Shift, error) {
	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessWorker(shift.WorkerID) {
		return nil, apperrors.ErrForbidden
	}
	return shift, nil
}

// ListShifts returns a newest-first page of shifts with segments. Non-admins
// only see their own.
func (s *shiftService) ListShifts(ctx context.Context, actor domain.Actor, params dto.ListShiftsParams) ([]domain.Shift, *string, error) {
	workerID := params.WorkerID
	if !actor.Admin {
		workerID = &actor.UserID
	}
	return s.shiftRepo.ListShifts(ctx, portsrepo.ListShiftsParams{
		WorkerID:  workerID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
}

// shiftForSegment loads the shift owning a segment and authorizes the actor.
func (s *shiftService) shiftForSegment(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Shift, error) {
	segment, err := s.shiftRepo.FindSegmentByID(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	shift, err := s.shiftRepo.FindShiftByID(ctx, segment.ShiftID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessWorker(shift.WorkerID) {
		return nil, apperrors.ErrForbidden
	}
	return shift, nil
}

// requireUnsettled fails with ErrSettled when the shift's obligation exists
// and is no longer unpaid. Settled financial history is immutable.
func (s *shiftService) requireUnsettled(ctx context.Context, shiftID int64) error {
	obligation, err := s.obligationRepo.FindObligationByShiftID(ctx, shiftID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check shift obligation: %w", err)
	}
	if obligation.Status != domain.StatusUnpaid {
		return apperrors.ErrSettled
	}
	return nil
}

// checkWorkShiftOverlap rejects a new work shift whose segments collide with
// any existing work shift of the worker. The overall spans are compared
// first; task-level intervals are only checked inside colliding candidates.
func (s *shiftService) checkWorkShiftOverlap(ctx context.Context, workerID int64, segments []domain.Segment, now time.Time) error {
	kind := domain.ShiftWork
	existing, err := s.shiftRepo.ListShiftsByWorker(ctx, workerID, &kind)
	if err != nil {
		return fmt.Errorf("failed to check shift overlap: %w", err)
	}

	newShift := domain.Shift{Segments: segments}
	newStart, newEnd := newShift.Span(now)

	for _, sh := range existing {
		start, end := sh.Span(now)
		if !domain.IntervalsOverlap(newStart, newEnd, start, end, domain.CreateOverlapGranularity) {
			continue
		}
		for _, existingSeg := range sh.Segments {
			for _, newSeg := range segments {
				if domain.SegmentsOverlap(newSeg, existingSeg, domain.CreateOverlapGranularity) {
					return ErrShiftOverlap
				}
			}
		}
	}
	return nil
}

func (s *shiftService) audit(userID int64, at time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     at,
		CreatedBy:     userID,
		LastUpdatedAt: at,
		LastUpdatedBy: userID,
	}
}

// requireEmployed verifies the worker holds an active employment record.
// A worker without one cannot accrue wages, so starting a shift is rejected
// up front instead of failing at pricing time.
func (s *shiftService) requireEmployed(ctx context.Context, workerID int64) error {
	_, err := s.employmentRepo.FindActiveByWorker(ctx, workerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrNotEmployed
	}
	if err != nil {
		return fmt.Errorf("failed to check employment: %w", err)
	}
	return nil
}

// idPayload builds a small map payload for events that only carry ids.
func idPayload(kv ...any) map[string]any {
	payload := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		payload[kv[i].(string)] = kv[i+1]
	}
	return payload
}
