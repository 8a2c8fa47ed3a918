package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	"github.com/wagetrack/wagetrack/internal/dto"
)

// MockShiftRepository is a mock type for the ShiftRepositoryFacade interface
type MockShiftRepository struct {
	mock.Mock
}

func (m *MockShiftRepository) FindShiftByID(ctx context.Context, shiftID int64) (*domain.Shift, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) FindSegmentByID(ctx context.Context, segmentID int64) (*domain.Segment, error) {
	args := m.Called(ctx, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Segment), args.Error(1)
}

func (m *MockShiftRepository) FindOpenSegmentForWorker(ctx context.Context, workerID int64) (*domain.Segment, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Segment), args.Error(1)
}

func (m *MockShiftRepository) ListShifts(ctx context.Context, params portsrepo.ListShiftsParams) ([]domain.Shift, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Shift), next, args.Error(2)
}

func (m *MockShiftRepository) ListShiftsByWorker(ctx context.Context, workerID int64, kind *domain.ShiftKind) ([]domain.Shift, error) {
	args := m.Called(ctx, workerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) ListOpenShifts(ctx context.Context) ([]domain.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) CreateShiftWithSegments(ctx context.Context, shift domain.Shift, obligation *domain.Obligation) (*domain.Shift, *domain.Obligation, error) {
	args := m.Called(ctx, shift, obligation)
	var savedShift *domain.Shift
	if args.Get(0) != nil {
		savedShift = args.Get(0).(*domain.Shift)
	}
	var savedObligation *domain.Obligation
	if args.Get(1) != nil {
		savedObligation = args.Get(1).(*domain.Obligation)
	}
	return savedShift, savedObligation, args.Error(2)
}

func (m *MockShiftRepository) CloseAndOpenSegment(ctx context.Context, closeSegmentID int64, end time.Time, open domain.Segment) (*domain.Segment, error) {
	args := m.Called(ctx, closeSegmentID, end, open)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Segment), args.Error(1)
}

func (m *MockShiftRepository) CloseSegmentWithObligation(ctx context.Context, segmentID int64, end time.Time, updatedBy int64, obligation *domain.Obligation) (*domain.Obligation, error) {
	args := m.Called(ctx, segmentID, end, updatedBy, obligation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockShiftRepository) UpdateSegment(ctx context.Context, segment domain.Segment, obligation *domain.Obligation) (*domain.Obligation, error) {
	args := m.Called(ctx, segment, obligation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockShiftRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockShiftRepository) DeleteSegment(ctx context.Context, segmentID int64) error {
	args := m.Called(ctx, segmentID)
	return args.Error(0)
}

func (m *MockShiftRepository) DeleteShift(ctx context.Context, shiftID int64) error {
	args := m.Called(ctx, shiftID)
	return args.Error(0)
}

func (m *MockShiftRepository) DeleteShifts(ctx context.Context, shiftIDs []int64) error {
	args := m.Called(ctx, shiftIDs)
	return args.Error(0)
}

// MockObligationRepository is a mock type for the ObligationRepositoryFacade interface
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindObligationByID(ctx context.Context, obligationID int64) (*domain.Obligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindObligationByShiftID(ctx context.Context, shiftID int64) (*domain.Obligation, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) ListObligations(ctx context.Context, params portsrepo.ListObligationsParams) ([]domain.Obligation, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Obligation), next, args.Error(2)
}

func (m *MockObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) (*domain.Obligation, error) {
	args := m.Called(ctx, obligation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) MarkPaidAndSettle(ctx context.Context, obligationID int64, updatedBy int64, at time.Time) (*domain.Obligation, []int64, error) {
	args := m.Called(ctx, obligationID, updatedBy, at)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var offsetIDs []int64
	if args.Get(1) != nil {
		offsetIDs = args.Get(1).([]int64)
	}
	return args.Get(0).(*domain.Obligation), offsetIDs, args.Error(2)
}

func (m *MockObligationRepository) DeleteObligation(ctx context.Context, obligationID int64) error {
	args := m.Called(ctx, obligationID)
	return args.Error(0)
}

// MockEmploymentRepository is a mock type for the EmploymentRepository interface
type MockEmploymentRepository struct {
	mock.Mock
}

func (m *MockEmploymentRepository) FindActiveByWorker(ctx context.Context, workerID int64) (*domain.EmploymentRecord, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmploymentRecord), args.Error(1)
}

func (m *MockEmploymentRepository) ListByWorker(ctx context.Context, workerID int64) ([]domain.EmploymentRecord, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmploymentRecord), args.Error(1)
}

// MockCategoryRepository is a mock type for the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindFirstByClass(ctx context.Context, class domain.CategoryClass) (*domain.Category, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListAdminIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) FindEmployer(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBalanceRepository is a mock type for the BalanceRepository interface
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) DashboardSums(ctx context.Context, workerID *int64) (domain.DashboardTotals, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).(domain.DashboardTotals), args.Error(1)
}

func (m *MockBalanceRepository) MonthlyClassSums(ctx context.Context, from, to time.Time) ([]domain.MonthlyClassRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyClassRow), args.Error(1)
}

func (m *MockBalanceRepository) MonthlyShiftStats(ctx context.Context, from, to time.Time) ([]domain.MonthlyShiftRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyShiftRow), args.Error(1)
}

func (m *MockBalanceRepository) CumulativeDebtBefore(ctx context.Context, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockBalanceRepository) MutualBalances(ctx context.Context) ([]domain.MutualBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MutualBalance), args.Error(1)
}

// MockObligationService is a mock type for the ObligationSvcFacade interface
type MockObligationService struct {
	mock.Mock
}

func (m *MockObligationService) BuildForShift(ctx context.Context, shift domain.Shift, occurredAt time.Time, generatedBy int64) (*domain.Obligation, error) {
	args := m.Called(ctx, shift, occurredAt, generatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) CreateObligation(ctx context.Context, actor domain.Actor, req dto.CreateObligationRequest) (*domain.Obligation, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) PayObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, []int64, error) {
	args := m.Called(ctx, actor, obligationID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var offsetIDs []int64
	if args.Get(1) != nil {
		offsetIDs = args.Get(1).([]int64)
	}
	return args.Get(0).(*domain.Obligation), offsetIDs, args.Error(2)
}

func (m *MockObligationService) DeleteObligation(ctx context.Context, actor domain.Actor, obligationID int64) error {
	args := m.Called(ctx, actor, obligationID)
	return args.Error(0)
}

func (m *MockObligationService) GetObligation(ctx context.Context, actor domain.Actor, obligationID int64) (*domain.Obligation, error) {
	args := m.Called(ctx, actor, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) ListObligations(ctx context.Context, actor domain.Actor, params dto.ListObligationsParams) ([]domain.Obligation, *string, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Obligation), next, args.Error(2)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event domain.Event, userIDs []int64) {
	m.Called(event, userIDs)
}
