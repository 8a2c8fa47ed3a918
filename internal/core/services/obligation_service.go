package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/dto"
	"github.com/wagetrack/wagetrack/internal/middleware"
)

var (
	ErrNoSalaryCategory  = fmt.Errorf("%w: no salary category configured", apperrors.ErrConfiguration)
	ErrNoEmployer        = fmt.Errorf("%w: no employer account configured", apperrors.ErrConfiguration)
	ErrAlreadyPaid       = fmt.Errorf("%w: obligation is no longer unpaid", apperrors.ErrConflict)
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
)

// descriptionLimit caps the generated obligation description.
const descriptionLimit = 500

const secondsPerHour = 3600

// obligationService owns wage generation, manual entry, and payment with
// auto-settlement.
type obligationService struct {
	obligationRepo portsrepo.ObligationRepositoryFacade
	categoryRepo   portsrepo.CategoryRepository
	employmentRepo portsrepo.EmploymentRepository
	userRepo       portsrepo.UserRepository
	publisher      portssvc.EventPublisher
	now            func() time.Time
}

// NewObligationService creates the obligation service. nowFn may be nil, in
// which case time.Now (UTC) is used.
func NewObligationService(
	obligationRepo portsrepo.ObligationRepositoryFacade,
	categoryRepo portsrepo.CategoryRepository,
	employmentRepo portsrepo.EmploymentRepository,
	userRepo portsrepo.UserRepository,
	publisher portssvc.EventPublisher,
	nowFn func() time.Time,
) portssvc.ObligationSvcFacade {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &obligationService{
		obligationRepo: obligationRepo,
		categoryRepo:   categoryRepo,
		employmentRepo: employmentRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		now:            nowFn,
	}
}

var _ portssvc.ObligationSvcFacade = (*obligationService)(nil)

// publish sends an event to the obligation's parties plus all admins.
func (s *obligationService) publish(ctx context.Context, event domain.Event, userIDs ...int64) {
	if s.publisher == nil {
		return
	}
	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to resolve event recipients", slog.String("error", err.Error()))
		adminIDs = nil
	}
	s.publisher.Publish(event, append(userIDs, adminIDs...))
}

// BuildForShift prices a closed shift into an unsaved unpaid salary
// obligation. Work shifts are priced on worked seconds (pauses excluded);
// paid absences are priced on their whole span. Unpaid leave, and shifts
// whose amount rounds to zero or below, generate nothing.
func (s *obligationService) BuildForShift(ctx context.Context, shift domain.Shift, occurredAt time.Time, generatedBy int64) (*domain.Obligation, error) {
	if !shift.Kind.GeneratesObligation() {
		return nil, nil
	}

	employment, err := s.employmentRepo.FindActiveByWorker(ctx, shift.WorkerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrNotEmployed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employment record: %w", err)
	}

	now := s.now()
	workSeconds := shift.WorkSeconds(now)
	amount := decimal.NewFromInt(workSeconds).
		Div(decimal.NewFromInt(secondsPerHour)).
		Mul(employment.HourlyRate).
		Round(2)
	if !amount.IsPositive() {
		return nil, nil
	}

	category, err := s.categoryRepo.FindFirstByClass(ctx, domain.ClassSalary)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrNoSalaryCategory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve salary category: %w", err)
	}

	employer, err := s.userRepo.FindEmployer(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrNoEmployer
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employer: %w", err)
	}

	obligation := domain.Obligation{
		PayerID:      employer.UserID,
		RecipientID:  shift.WorkerID,
		CategoryID:   category.CategoryID,
		Class:        domain.ClassSalary,
		Amount:       amount,
		CurrencyCode: employment.CurrencyCode,
		Status:       domain.StatusUnpaid,
		OccurredAt:   occurredAt,
		Description:  buildObligationDescription(shift),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     generatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: generatedBy,
		},
	}
	if shift.ShiftID != 0 {
		shiftID := shift.ShiftID
		obligation.ShiftID = &shiftID
	}
	return &obligation, nil
}

// CreateObligation records a manually entered obligation (admin only).
func (s *obligationService) CreateObligation(ctx context.Context, actor domain.Actor, req dto.CreateObligationRequest) (*domain.Obligation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Admin {
		return nil, apperrors.ErrForbidden
	}
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if req.PayerID == req.RecipientID {
		return nil, fmt.Errorf("%w: payer and recipient must differ", apperrors.ErrValidation)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, req.PayerID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	now := s.now()
	obligation := domain.Obligation{
		PayerID:      req.PayerID,
		RecipientID:  req.RecipientID,
		CategoryID:   category.CategoryID,
		Class:        category.Class,
		Amount:       req.Amount.Round(2),
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Status:       domain.StatusUnpaid,
		OccurredAt:   req.OccurredAt,
		Description:  req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	saved, err := s.obligationRepo.SaveObligation(ctx, obligation)
	if err != nil {
		logger.Error("Failed to create obligation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create obligation: %w", err)
	}

	logger.Info("Obligation created",
		slog.Int64("obligation_id", saved.ObligationID),
		slog.String("class", string(saved.Class)),
		slog.String("amount", saved.Amount.String()))
	s.publish(ctx, domain.Event{Type: domain.EventObligationCreated, Payload: dto.ToObligationResponse(saved)}, saved.PayerID, saved.RecipientID)
	return saved, nil
}

// PayObligation marks an unpaid obligation paid. Paying a debt-class row
// runs the auto-settlement scan in the same transaction, offsetting every
// earlier unpaid salary/expense obligation of the same payer/recipient pair.
func (s *obligationService) PayObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, []int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Admin {
		return nil, nil, apperrors.ErrForbidden
	}

	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		return nil, nil, err
	}
	if obligation.Status != domain.StatusUnpaid {
		return nil, nil, ErrAlreadyPaid
	}

	paid, offsetIDs, err := s.obligationRepo.MarkPaidAndSettle(ctx, obligationID, actor.UserID, s.now())
	if err != nil {
		logger.Error("Failed to pay obligation", slog.String("error", err.Error()), slog.Int64("obligation_id", obligationID))
		return nil, nil, fmt.Errorf("failed to pay obligation: %w", err)
	}

	logger.Info("Obligation paid",
		slog.Int64("obligation_id", obligationID),
		slog.Int("offset_count", len(offsetIDs)))
	s.publish(ctx, domain.Event{Type: domain.EventObligationUpdated, Payload: dto.ToObligationResponse(paid)}, paid.PayerID, paid.RecipientID)
	for _, offsetID := range offsetIDs {
		s.publish(ctx, domain.Event{
			Type:    domain.EventObligationUpdated,
			Payload: idPayload("obligationID", offsetID, "status", domain.StatusOffset),
		}, paid.PayerID, paid.RecipientID)
	}
	return paid, offsetIDs, nil
}

// DeleteObligation removes an obligation while it is still unpaid (admin
// only). Paid and offset rows are settled history and cannot be removed.
func (s *obligationService) DeleteObligation(ctx context.Context, actor domain.Actor, obligationID int64) error {
	if !actor.Admin {
		return apperrors.ErrForbidden
	}

	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		return err
	}
	if obligation.Status != domain.StatusUnpaid {
		return apperrors.ErrSettled
	}
	if err := s.obligationRepo.DeleteObligation(ctx, obligationID); err != nil {
		return fmt.Errorf("failed to delete obligation: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:    domain.EventObligationUpdated,
		Payload: idPayload("obligationID", obligationID, "deleted", true),
	}, obligation.PayerID, obligation.RecipientID)
	return nil
}

// GetObligation returns one obligation. Non-admins only see rows they are a
// party to.
func (s *obligationService) GetObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && actor.UserID != obligation.PayerID && actor.UserID != obligation.RecipientID {
		return nil, apperrors.ErrForbidden
	}
	return obligation, nil
}

// ListObligations returns a newest-first page of obligations. Non-admins are
// scoped to rows they are a party to.
func (s *obligationService) ListObligations(ctx context.Context, actor domain.Actor, params dto.ListObligationsParams) ([]domain.Obligation, *string, error) {
	workerID := params.WorkerID
	if !actor.Admin {
		workerID = &actor.UserID
	}
	return s.obligationRepo.ListObligations(ctx, portsrepo.ListObligationsParams{
		WorkerID:  workerID,
		Status:    params.Status,
		Class:     params.Class,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
}

// buildObligationDescription joins the shift description with the distinct
// segment task descriptions, truncated to the description limit.
func buildObligationDescription(shift domain.Shift) string {
	parts := make([]string, 0, len(shift.Segments)+1)
	seen := make(map[string]struct{})
	if shift.Description != "" {
		parts = append(parts, shift.Description)
		seen[shift.Description] = struct{}{}
	}
	for _, seg := range shift.Segments {
		if seg.Kind != domain.SegmentWork || seg.Description == "" {
			continue
		}
		if _, dup := seen[seg.Description]; dup {
			continue
		}
		seen[seg.Description] = struct{}{}
		parts = append(parts, seg.Description)
	}

	description := strings.Join(parts, "; ")
	runes := []rune(description)
	if len(runes) > descriptionLimit {
		description = string(runes[:descriptionLimit-3]) + "..."
	}
	return description
}
