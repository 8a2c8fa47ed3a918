package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/core/services"
	"github.com/wagetrack/wagetrack/internal/dto"
)

type ObligationServiceTestSuite struct {
	suite.Suite
	obligationRepo *MockObligationRepository
	categoryRepo   *MockCategoryRepository
	employmentRepo *MockEmploymentRepository
	userRepo       *MockUserRepository
	publisher      *MockEventPublisher
	service        portssvc.ObligationSvcFacade
}

func (suite *ObligationServiceTestSuite) SetupTest() {
	suite.obligationRepo = new(MockObligationRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.employmentRepo = new(MockEmploymentRepository)
	suite.userRepo = new(MockUserRepository)
	suite.publisher = new(MockEventPublisher)
	suite.service = services.NewObligationService(
		suite.obligationRepo,
		suite.categoryRepo,
		suite.employmentRepo,
		suite.userRepo,
		suite.publisher,
		func() time.Time { return testNow },
	)

	suite.userRepo.On("ListAdminIDs", mock.Anything).Return([]int64{1}, nil).Maybe()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Maybe()
}

// closedWorkShift builds a shift worked 09:00 to 16:30 with a half hour pause,
// which is seven paid hours.
func (suite *ObligationServiceTestSuite) closedWorkShift() domain.Shift {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	end1, end2, end3 := at(11, 0), at(11, 30), at(16, 30)
	return domain.Shift{
		ShiftID:  3,
		WorkerID: 2,
		Kind:     domain.ShiftWork,
		Segments: []domain.Segment{
			{SegmentID: 1, ShiftID: 3, StartTime: at(9, 0), EndTime: &end1, Kind: domain.SegmentWork, Description: "cleaning"},
			{SegmentID: 2, ShiftID: 3, StartTime: at(11, 0), EndTime: &end2, Kind: domain.SegmentPause},
			{SegmentID: 3, ShiftID: 3, StartTime: at(11, 30), EndTime: &end3, Kind: domain.SegmentWork, Description: "cooking"},
		},
	}
}

func (suite *ObligationServiceTestSuite) expectGenerationDeps() {
	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).
		Return(&domain.EmploymentRecord{EmploymentID: 10, WorkerID: 2, HourlyRate: decimal.NewFromInt(100), CurrencyCode: "UAH", Active: true}, nil).Once()
	suite.categoryRepo.On("FindFirstByClass", mock.Anything, domain.ClassSalary).
		Return(&domain.Category{CategoryID: 1, Name: "Salary", Class: domain.ClassSalary}, nil).Once()
	suite.userRepo.On("FindEmployer", mock.Anything).
		Return(&domain.User{UserID: 1, IsEmployer: true, IsAdmin: true}, nil).Once()
}

func (suite *ObligationServiceTestSuite) TestBuildForShift_PausesExcludedFromWage() {
	ctx := context.Background()
	shift := suite.closedWorkShift()
	suite.expectGenerationDeps()

	obligation, err := suite.service.BuildForShift(ctx, shift, testNow, 2)

	suite.Require().NoError(err)
	suite.Require().NotNil(obligation)
	// Seven worked hours at 100/h; the paused half hour earns nothing.
	suite.True(decimal.NewFromInt(700).Equal(obligation.Amount), "expected 700.00, got %s", obligation.Amount)
	suite.Equal(int64(1), obligation.PayerID)
	suite.Equal(int64(2), obligation.RecipientID)
	suite.Equal(domain.ClassSalary, obligation.Class)
	suite.Equal(domain.StatusUnpaid, obligation.Status)
	suite.Equal("UAH", obligation.CurrencyCode)
	suite.Equal(testNow, obligation.OccurredAt)
	suite.Require().NotNil(obligation.ShiftID)
	suite.Equal(int64(3), *obligation.ShiftID)
	suite.Contains(obligation.Description, "cleaning")
	suite.Contains(obligation.Description, "cooking")
}

func (suite *ObligationServiceTestSuite) TestBuildForShift_UnpaidLeaveGeneratesNothing() {
	ctx := context.Background()
	end := testNow.Add(8 * time.Hour)
	shift := domain.Shift{
		ShiftID:  4,
		WorkerID: 2,
		Kind:     domain.ShiftUnpaidLeave,
		Segments: []domain.Segment{{SegmentID: 9, ShiftID: 4, StartTime: testNow, EndTime: &end, Kind: domain.SegmentWork}},
	}

	obligation, err := suite.service.BuildForShift(ctx, shift, testNow, 2)

	suite.Require().NoError(err)
	suite.Nil(obligation)
	suite.employmentRepo.AssertNotCalled(suite.T(), "FindActiveByWorker", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestBuildForShift_ZeroWorkGeneratesNothing() {
	ctx := context.Background()
	end := testNow.Add(time.Hour)
	shift := domain.Shift{
		ShiftID:  5,
		WorkerID: 2,
		Kind:     domain.ShiftWork,
		Segments: []domain.Segment{{SegmentID: 9, ShiftID: 5, StartTime: testNow, EndTime: &end, Kind: domain.SegmentPause}},
	}
	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).
		Return(&domain.EmploymentRecord{WorkerID: 2, HourlyRate: decimal.NewFromInt(100), CurrencyCode: "UAH", Active: true}, nil).Once()

	obligation, err := suite.service.BuildForShift(ctx, shift, testNow, 2)

	suite.Require().NoError(err)
	suite.Nil(obligation)
}

func (suite *ObligationServiceTestSuite) TestBuildForShift_NoSalaryCategory() {
	ctx := context.Background()
	shift := suite.closedWorkShift()
	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).
		Return(&domain.EmploymentRecord{WorkerID: 2, HourlyRate: decimal.NewFromInt(100), CurrencyCode: "UAH", Active: true}, nil).Once()
	suite.categoryRepo.On("FindFirstByClass", mock.Anything, domain.ClassSalary).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.BuildForShift(ctx, shift, testNow, 2)

	suite.Require().ErrorIs(err, services.ErrNoSalaryCategory)
	suite.Require().ErrorIs(err, apperrors.ErrConfiguration)
}

func (suite *ObligationServiceTestSuite) TestBuildForShift_NotEmployed() {
	ctx := context.Background()
	shift := suite.closedWorkShift()
	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.BuildForShift(ctx, shift, testNow, 2)

	suite.Require().ErrorIs(err, services.ErrNotEmployed)
}

func (suite *ObligationServiceTestSuite) TestCreateObligation_NonAdminForbidden() {
	ctx := context.Background()

	_, err := suite.service.CreateObligation(ctx, domain.Actor{UserID: 2}, dto.CreateObligationRequest{})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ObligationServiceTestSuite) TestCreateObligation_Success() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}
	req := dto.CreateObligationRequest{
		PayerID:      1,
		RecipientID:  2,
		CategoryID:   3,
		Amount:       decimal.RequireFromString("250.005"),
		CurrencyCode: "uah",
		OccurredAt:   testNow,
		Description:  "advance",
	}

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(3)).
		Return(&domain.Category{CategoryID: 3, Name: "Advance", Class: domain.ClassDebt}, nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, int64(1)).Return(&domain.User{UserID: 1}, nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, int64(2)).Return(&domain.User{UserID: 2}, nil).Once()
	suite.obligationRepo.On("SaveObligation", mock.Anything, mock.AnythingOfType("domain.Obligation")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(domain.Obligation)
			suite.Equal(domain.ClassDebt, o.Class)
			suite.Equal("UAH", o.CurrencyCode)
			suite.True(decimal.RequireFromString("250.01").Equal(o.Amount), "amount rounds to 2 places, got %s", o.Amount)
			suite.Equal(domain.StatusUnpaid, o.Status)
		}).
		Return(&domain.Obligation{ObligationID: 11, PayerID: 1, RecipientID: 2, Class: domain.ClassDebt, Status: domain.StatusUnpaid, TrackingNumber: "P11"}, nil).Once()

	saved, err := suite.service.CreateObligation(ctx, admin, req)

	suite.Require().NoError(err)
	suite.Equal("P11", saved.TrackingNumber)
	suite.obligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestCreateObligation_RejectsNonPositiveAmount() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}

	_, err := suite.service.CreateObligation(ctx, admin, dto.CreateObligationRequest{
		PayerID: 1, RecipientID: 2, CategoryID: 3, Amount: decimal.Zero, CurrencyCode: "UAH", OccurredAt: testNow,
	})

	suite.Require().ErrorIs(err, services.ErrAmountNotPositive)
}

func (suite *ObligationServiceTestSuite) TestCreateObligation_RejectsSelfPayment() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}

	_, err := suite.service.CreateObligation(ctx, admin, dto.CreateObligationRequest{
		PayerID: 2, RecipientID: 2, CategoryID: 3, Amount: decimal.NewFromInt(10), CurrencyCode: "UAH", OccurredAt: testNow,
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ObligationServiceTestSuite) TestPayObligation_DebtTriggersSettlement() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}
	debt := &domain.Obligation{ObligationID: 11, PayerID: 1, RecipientID: 2, Class: domain.ClassDebt, Status: domain.StatusUnpaid}
	paid := &domain.Obligation{ObligationID: 11, PayerID: 1, RecipientID: 2, Class: domain.ClassDebt, Status: domain.StatusPaid}

	suite.obligationRepo.On("FindObligationByID", mock.Anything, int64(11)).Return(debt, nil).Once()
	suite.obligationRepo.On("MarkPaidAndSettle", mock.Anything, int64(11), int64(1), testNow).
		Return(paid, []int64{7, 9}, nil).Once()

	updated, offsetIDs, err := suite.service.PayObligation(ctx, admin, 11)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, updated.Status)
	suite.Equal([]int64{7, 9}, offsetIDs)
	suite.obligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestPayObligation_AlreadyPaid() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}
	paid := &domain.Obligation{ObligationID: 11, Class: domain.ClassSalary, Status: domain.StatusPaid}

	suite.obligationRepo.On("FindObligationByID", mock.Anything, int64(11)).Return(paid, nil).Once()

	_, _, err := suite.service.PayObligation(ctx, admin, 11)

	suite.Require().ErrorIs(err, services.ErrAlreadyPaid)
	suite.obligationRepo.AssertNotCalled(suite.T(), "MarkPaidAndSettle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestPayObligation_NonAdminForbidden() {
	ctx := context.Background()

	_, _, err := suite.service.PayObligation(ctx, domain.Actor{UserID: 2}, 11)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ObligationServiceTestSuite) TestDeleteObligation_SettledBlocked() {
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Admin: true}
	offset := &domain.Obligation{ObligationID: 11, Class: domain.ClassSalary, Status: domain.StatusOffset}

	suite.obligationRepo.On("FindObligationByID", mock.Anything, int64(11)).Return(offset, nil).Once()

	err := suite.service.DeleteObligation(ctx, admin, 11)

	suite.Require().ErrorIs(err, apperrors.ErrSettled)
	suite.obligationRepo.AssertNotCalled(suite.T(), "DeleteObligation", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestGetObligation_NonPartyForbidden() {
	ctx := context.Background()
	obligation := &domain.Obligation{ObligationID: 11, PayerID: 1, RecipientID: 2}

	suite.obligationRepo.On("FindObligationByID", mock.Anything, int64(11)).Return(obligation, nil)

	_, err := suite.service.GetObligation(ctx, domain.Actor{UserID: 5}, 11)
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)

	got, err := suite.service.GetObligation(ctx, domain.Actor{UserID: 2}, 11)
	suite.Require().NoError(err)
	suite.Equal(int64(11), got.ObligationID)
}

func (suite *ObligationServiceTestSuite) TestListObligations_NonAdminScopedToSelf() {
	ctx := context.Background()
	otherWorker := int64(9)

	suite.obligationRepo.On("ListObligations", mock.Anything, mock.MatchedBy(func(params portsrepo.ListObligationsParams) bool {
		return params.WorkerID != nil && *params.WorkerID == 2
	})).Return([]domain.Obligation{}, nil, nil).Once()

	_, _, err := suite.service.ListObligations(ctx, domain.Actor{UserID: 2}, dto.ListObligationsParams{WorkerID: &otherWorker})

	suite.Require().NoError(err)
	suite.obligationRepo.AssertExpectations(suite.T())
}

func TestObligationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ObligationServiceTestSuite))
}
