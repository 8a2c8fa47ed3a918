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

var testNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type ShiftServiceTestSuite struct {
	suite.Suite
	shiftRepo      *MockShiftRepository
	obligationRepo *MockObligationRepository
	obligationSvc  *MockObligationService
	employmentRepo *MockEmploymentRepository
	userRepo       *MockUserRepository
	publisher      *MockEventPublisher
	service        portssvc.ShiftSvcFacade
}

func (suite *ShiftServiceTestSuite) SetupTest() {
	suite.shiftRepo = new(MockShiftRepository)
	suite.obligationRepo = new(MockObligationRepository)
	suite.obligationSvc = new(MockObligationService)
	suite.employmentRepo = new(MockEmploymentRepository)
	suite.userRepo = new(MockUserRepository)
	suite.publisher = new(MockEventPublisher)
	suite.service = services.NewShiftService(
		suite.shiftRepo,
		suite.obligationRepo,
		suite.obligationSvc,
		suite.employmentRepo,
		suite.userRepo,
		suite.publisher,
		func() time.Time { return testNow },
	)

	// Fan-out is best-effort background noise for most cases.
	suite.userRepo.On("ListAdminIDs", mock.Anything).Return([]int64{1}, nil).Maybe()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Maybe()
}

func (suite *ShiftServiceTestSuite) worker() domain.Actor {
	return domain.Actor{UserID: 2}
}

func (suite *ShiftServiceTestSuite) admin() domain.Actor {
	return domain.Actor{UserID: 1, Admin: true}
}

func (suite *ShiftServiceTestSuite) employment() *domain.EmploymentRecord {
	return &domain.EmploymentRecord{
		EmploymentID: 10,
		WorkerID:     2,
		HourlyRate:   decimal.NewFromInt(100),
		CurrencyCode: "UAH",
		Active:       true,
	}
}

func (suite *ShiftServiceTestSuite) TestStartShift_Success() {
	ctx := context.Background()

	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).Return(suite.employment(), nil).Once()
	suite.shiftRepo.On("FindOpenSegmentForWorker", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound).Once()
	suite.shiftRepo.On("CreateShiftWithSegments", mock.Anything, mock.AnythingOfType("domain.Shift"), (*domain.Obligation)(nil)).
		Run(func(args mock.Arguments) {
			shift := args.Get(1).(domain.Shift)
			suite.Equal(domain.ShiftWork, shift.Kind)
			suite.Require().Len(shift.Segments, 1)
			suite.Equal(domain.SegmentWork, shift.Segments[0].Kind)
			suite.True(shift.Segments[0].Open())
			suite.Equal(testNow, shift.Segments[0].StartTime)
		}).
		Return(&domain.Shift{ShiftID: 7, WorkerID: 2, Kind: domain.ShiftWork, TrackingNumber: "A7"}, nil, nil).Once()

	shift, err := suite.service.StartShift(ctx, suite.worker(), dto.StartShiftRequest{Description: "morning"})

	suite.Require().NoError(err)
	suite.Equal(int64(7), shift.ShiftID)
	suite.shiftRepo.AssertExpectations(suite.T())
}

func (suite *ShiftServiceTestSuite) TestStartShift_NotEmployed() {
	ctx := context.Background()

	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.StartShift(ctx, suite.worker(), dto.StartShiftRequest{})

	suite.Require().ErrorIs(err, services.ErrNotEmployed)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.shiftRepo.AssertNotCalled(suite.T(), "CreateShiftWithSegments", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ShiftServiceTestSuite) TestStartShift_AlreadyActive() {
	ctx := context.Background()

	suite.employmentRepo.On("FindActiveByWorker", mock.Anything, int64(2)).Return(suite.employment(), nil).Once()
	suite.shiftRepo.On("FindOpenSegmentForWorker", mock.Anything, int64(2)).
		Return(&domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), Kind: domain.SegmentWork}, nil).Once()

	_, err := suite.service.StartShift(ctx, suite.worker(), dto.StartShiftRequest{})

	suite.Require().ErrorIs(err, services.ErrAlreadyActive)
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ShiftServiceTestSuite) TestStartShift_ForbiddenForOtherWorker() {
	ctx := context.Background()
	otherWorker := int64(9)

	_, err := suite.service.StartShift(ctx, suite.worker(), dto.StartShiftRequest{WorkerID: &otherWorker})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ShiftServiceTestSuite) TestPauseSegment_Success() {
	ctx := context.Background()
	open := &domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), Kind: domain.SegmentWork, Description: "tasks"}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{*open}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(open, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.shiftRepo.On("CloseAndOpenSegment", mock.Anything, int64(5), testNow, mock.AnythingOfType("domain.Segment")).
		Run(func(args mock.Arguments) {
			opened := args.Get(3).(domain.Segment)
			suite.Equal(domain.SegmentPause, opened.Kind)
			suite.Equal(testNow, opened.StartTime)
			suite.Equal(int64(3), opened.ShiftID)
		}).
		Return(&domain.Segment{SegmentID: 6, ShiftID: 3, StartTime: testNow, Kind: domain.SegmentPause}, nil).Once()

	opened, err := suite.service.PauseSegment(ctx, suite.worker(), 5)

	suite.Require().NoError(err)
	suite.Equal(domain.SegmentPause, opened.Kind)
	suite.shiftRepo.AssertExpectations(suite.T())
}

func (suite *ShiftServiceTestSuite) TestPauseSegment_AlreadyPaused() {
	ctx := context.Background()
	open := &domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), Kind: domain.SegmentPause}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{*open}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(open, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)

	_, err := suite.service.PauseSegment(ctx, suite.worker(), 5)

	suite.Require().ErrorIs(err, services.ErrAlreadyPaused)
}

func (suite *ShiftServiceTestSuite) TestResumeSegment_NotPaused() {
	ctx := context.Background()
	open := &domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{*open}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(open, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)

	_, err := suite.service.ResumeSegment(ctx, suite.worker(), 5)

	suite.Require().ErrorIs(err, services.ErrNotPaused)
}

func (suite *ShiftServiceTestSuite) TestPauseSegment_ClosedSegment() {
	ctx := context.Background()
	end := testNow.Add(-time.Minute)
	closed := &domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), EndTime: &end, Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{*closed}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(closed, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)

	_, err := suite.service.PauseSegment(ctx, suite.worker(), 5)

	suite.Require().ErrorIs(err, services.ErrNotActive)
}

func (suite *ShiftServiceTestSuite) TestStopSegment_GeneratesObligation() {
	ctx := context.Background()
	open := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-2 * time.Hour), Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{open}}
	built := &domain.Obligation{PayerID: 1, RecipientID: 2, Amount: decimal.NewFromInt(200), Status: domain.StatusUnpaid}
	saved := &domain.Obligation{ObligationID: 11, PayerID: 1, RecipientID: 2, Amount: decimal.NewFromInt(200), Status: domain.StatusUnpaid, TrackingNumber: "P11"}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&open, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.obligationSvc.On("BuildForShift", mock.Anything, mock.AnythingOfType("domain.Shift"), testNow, int64(2)).
		Run(func(args mock.Arguments) {
			priced := args.Get(1).(domain.Shift)
			suite.True(priced.Closed(), "the shift must be priced as closed")
			suite.Equal(int64(7200), priced.WorkSeconds(testNow))
		}).
		Return(built, nil).Once()
	suite.shiftRepo.On("CloseSegmentWithObligation", mock.Anything, int64(5), testNow, int64(2), built).
		Return(saved, nil).Once()

	stopped, obligation, err := suite.service.StopSegment(ctx, suite.worker(), 5)

	suite.Require().NoError(err)
	suite.True(stopped.Closed())
	suite.Require().NotNil(obligation)
	suite.Equal("P11", obligation.TrackingNumber)
	suite.obligationSvc.AssertExpectations(suite.T())
	suite.shiftRepo.AssertExpectations(suite.T())
}

func (suite *ShiftServiceTestSuite) TestStopSegment_GenerationFailureAbortsStop() {
	ctx := context.Background()
	open := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{open}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&open, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.obligationSvc.On("BuildForShift", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrNoSalaryCategory).Once()

	_, _, err := suite.service.StopSegment(ctx, suite.worker(), 5)

	suite.Require().ErrorIs(err, services.ErrNoSalaryCategory)
	suite.shiftRepo.AssertNotCalled(suite.T(), "CloseSegmentWithObligation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ShiftServiceTestSuite) TestStopSegment_NotOpen() {
	ctx := context.Background()
	end := testNow.Add(-time.Minute)
	closed := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-time.Hour), EndTime: &end, Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{closed}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&closed, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)

	_, _, err := suite.service.StopSegment(ctx, suite.worker(), 5)

	suite.Require().ErrorIs(err, services.ErrNotActive)
}

func (suite *ShiftServiceTestSuite) TestManualCreateShift_OverlapRejected() {
	ctx := context.Background()
	start := testNow.Add(-4 * time.Hour)
	end := testNow.Add(-2 * time.Hour)
	kind := domain.ShiftWork

	existingEnd := testNow.Add(-3 * time.Hour)
	existing := domain.Shift{
		ShiftID:  1,
		WorkerID: 2,
		Kind:     domain.ShiftWork,
		Segments: []domain.Segment{{SegmentID: 1, ShiftID: 1, StartTime: testNow.Add(-5 * time.Hour), EndTime: &existingEnd, Kind: domain.SegmentWork}},
	}

	suite.shiftRepo.On("ListShiftsByWorker", mock.Anything, int64(2), &kind).Return([]domain.Shift{existing}, nil).Once()

	_, _, err := suite.service.ManualCreateShift(ctx, suite.admin(), dto.ManualCreateShiftRequest{
		WorkerID: 2,
		Kind:     domain.ShiftWork,
		Segments: []dto.ManualSegmentRequest{{StartTime: start, EndTime: end, Kind: domain.SegmentWork}},
	})

	suite.Require().ErrorIs(err, services.ErrShiftOverlap)
}

func (suite *ShiftServiceTestSuite) TestManualCreateShift_InternalOverlapRejected() {
	ctx := context.Background()

	_, _, err := suite.service.ManualCreateShift(ctx, suite.admin(), dto.ManualCreateShiftRequest{
		WorkerID: 2,
		Kind:     domain.ShiftWork,
		Segments: []dto.ManualSegmentRequest{
			{StartTime: testNow.Add(-4 * time.Hour), EndTime: testNow.Add(-2 * time.Hour), Kind: domain.SegmentWork},
			{StartTime: testNow.Add(-3 * time.Hour), EndTime: testNow.Add(-1 * time.Hour), Kind: domain.SegmentWork},
		},
	})

	suite.Require().ErrorIs(err, services.ErrSegmentOverlap)
}

func (suite *ShiftServiceTestSuite) TestRecordTimeOff_EndBeforeStart() {
	ctx := context.Background()

	_, _, err := suite.service.RecordTimeOff(ctx, suite.worker(), dto.TimeOffRequest{
		WorkerID:  2,
		Kind:      domain.ShiftVacation,
		StartTime: testNow,
		EndTime:   testNow.Add(-time.Hour),
	})

	suite.Require().ErrorIs(err, services.ErrEndBeforeStart)
}

func (suite *ShiftServiceTestSuite) TestRecordTimeOff_TooLong() {
	ctx := context.Background()

	_, _, err := suite.service.RecordTimeOff(ctx, suite.worker(), dto.TimeOffRequest{
		WorkerID:  2,
		Kind:      domain.ShiftVacation,
		StartTime: testNow,
		EndTime:   testNow.Add(366 * 24 * time.Hour),
	})

	suite.Require().ErrorIs(err, services.ErrTimeOffTooLong)
}

func (suite *ShiftServiceTestSuite) TestRecordTimeOff_SameKindOverlapRejected() {
	ctx := context.Background()
	kind := domain.ShiftVacation

	existingEnd := testNow.Add(48 * time.Hour)
	existing := domain.Shift{
		ShiftID:  4,
		WorkerID: 2,
		Kind:     domain.ShiftVacation,
		Segments: []domain.Segment{{SegmentID: 9, ShiftID: 4, StartTime: testNow, EndTime: &existingEnd, Kind: domain.SegmentWork}},
	}

	suite.shiftRepo.On("ListShiftsByWorker", mock.Anything, int64(2), &kind).Return([]domain.Shift{existing}, nil).Once()

	_, _, err := suite.service.RecordTimeOff(ctx, suite.worker(), dto.TimeOffRequest{
		WorkerID:  2,
		Kind:      domain.ShiftVacation,
		StartTime: testNow.Add(24 * time.Hour),
		EndTime:   testNow.Add(72 * time.Hour),
	})

	suite.Require().ErrorIs(err, services.ErrShiftOverlap)
}

func (suite *ShiftServiceTestSuite) TestRecordTimeOff_UnpaidLeaveGeneratesNothing() {
	ctx := context.Background()
	kind := domain.ShiftUnpaidLeave

	suite.shiftRepo.On("ListShiftsByWorker", mock.Anything, int64(2), &kind).Return([]domain.Shift{}, nil).Once()
	suite.shiftRepo.On("CreateShiftWithSegments", mock.Anything, mock.AnythingOfType("domain.Shift"), (*domain.Obligation)(nil)).
		Return(&domain.Shift{ShiftID: 8, WorkerID: 2, Kind: domain.ShiftUnpaidLeave}, nil, nil).Once()

	_, obligation, err := suite.service.RecordTimeOff(ctx, suite.worker(), dto.TimeOffRequest{
		WorkerID:  2,
		Kind:      domain.ShiftUnpaidLeave,
		StartTime: testNow,
		EndTime:   testNow.Add(8 * time.Hour),
	})

	suite.Require().NoError(err)
	suite.Nil(obligation)
	suite.obligationSvc.AssertNotCalled(suite.T(), "BuildForShift", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ShiftServiceTestSuite) TestUpdateSegment_SettledObligationBlocksEdit() {
	ctx := context.Background()
	end := testNow.Add(-time.Hour)
	segment := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-3 * time.Hour), EndTime: &end, Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{segment}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&segment, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.obligationRepo.On("FindObligationByShiftID", mock.Anything, int64(3)).
		Return(&domain.Obligation{ObligationID: 11, Status: domain.StatusOffset}, nil).Once()

	newStart := testNow.Add(-4 * time.Hour)
	_, err := suite.service.UpdateSegment(ctx, suite.worker(), 5, dto.UpdateSegmentRequest{StartTime: &newStart})

	suite.Require().ErrorIs(err, apperrors.ErrSettled)
	suite.shiftRepo.AssertNotCalled(suite.T(), "UpdateSegment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ShiftServiceTestSuite) TestUpdateSegment_MinuteGranularityAllowsSubMinuteOverlap() {
	ctx := context.Background()
	firstEnd := testNow.Add(-time.Hour)
	first := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-3 * time.Hour), EndTime: &firstEnd, Kind: domain.SegmentWork}
	secondEnd := testNow
	second := domain.Segment{SegmentID: 6, ShiftID: 3, StartTime: firstEnd, EndTime: &secondEnd, Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{first, second}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&first, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.obligationRepo.On("FindObligationByShiftID", mock.Anything, int64(3)).Return(nil, apperrors.ErrNotFound)
	suite.shiftRepo.On("UpdateSegment", mock.Anything, mock.AnythingOfType("domain.Segment"), (*domain.Obligation)(nil)).
		Return(nil, nil).Once()

	// Pushing the end 30 seconds into the next segment stays legal at minute
	// granularity.
	newEnd := firstEnd.Add(30 * time.Second)
	updated, err := suite.service.UpdateSegment(ctx, suite.worker(), 5, dto.UpdateSegmentRequest{EndTime: &newEnd})

	suite.Require().NoError(err)
	suite.Equal(newEnd, *updated.EndTime)
}

func (suite *ShiftServiceTestSuite) TestDeleteSegment_LastSegmentDeletesShift() {
	ctx := context.Background()
	end := testNow.Add(-time.Hour)
	segment := domain.Segment{SegmentID: 5, ShiftID: 3, StartTime: testNow.Add(-3 * time.Hour), EndTime: &end, Kind: domain.SegmentWork}
	shift := &domain.Shift{ShiftID: 3, WorkerID: 2, Kind: domain.ShiftWork, Segments: []domain.Segment{segment}}

	suite.shiftRepo.On("FindSegmentByID", mock.Anything, int64(5)).Return(&segment, nil)
	suite.shiftRepo.On("FindShiftByID", mock.Anything, int64(3)).Return(shift, nil)
	suite.obligationRepo.On("FindObligationByShiftID", mock.Anything, int64(3)).Return(nil, apperrors.ErrNotFound)
	suite.shiftRepo.On("DeleteShift", mock.Anything, int64(3)).Return(nil).Once()

	err := suite.service.DeleteSegment(ctx, suite.worker(), 5)

	suite.Require().NoError(err)
	suite.shiftRepo.AssertNotCalled(suite.T(), "DeleteSegment", mock.Anything, mock.Anything)
	suite.shiftRepo.AssertExpectations(suite.T())
}

func (suite *ShiftServiceTestSuite) TestDeleteShifts_NonAdminForbidden() {
	ctx := context.Background()

	err := suite.service.DeleteShifts(ctx, suite.worker(), []int64{1, 2})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ShiftServiceTestSuite) TestListShifts_NonAdminScopedToSelf() {
	ctx := context.Background()
	otherWorker := int64(9)

	suite.shiftRepo.On("ListShifts", mock.Anything, mock.MatchedBy(func(params portsrepo.ListShiftsParams) bool {
		return params.WorkerID != nil && *params.WorkerID == 2
	})).Return([]domain.Shift{}, nil, nil).Once()

	_, _, err := suite.service.ListShifts(ctx, suite.worker(), dto.ListShiftsParams{WorkerID: &otherWorker, Limit: 10})

	suite.Require().NoError(err)
	suite.shiftRepo.AssertExpectations(suite.T())
}

func TestShiftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShiftServiceTestSuite))
}
