package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SwapServiceTestSuite struct {
	suite.Suite
	mockSwapRepo     *MockSwapRepository
	mockScheduleRepo *MockScheduleRepository
	mockCalendarRepo *MockCalendarRepository
	mockAuthorizer   *MockCalendarAuthorizer
	mockNotifier     *MockNotifier
	service          *services.SwapService

	calendarID  string
	requesterID string
	targetID    string
	adminID     string
	shiftA      *domain.Shift
	shiftB      *domain.Shift
}

func (suite *SwapServiceTestSuite) SetupTest() {
	suite.mockSwapRepo = new(MockSwapRepository)
	suite.mockScheduleRepo = new(MockScheduleRepository)
	suite.mockCalendarRepo = new(MockCalendarRepository)
	suite.mockAuthorizer = new(MockCalendarAuthorizer)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewSwapService(
		suite.mockSwapRepo, suite.mockScheduleRepo, suite.mockCalendarRepo,
		suite.mockAuthorizer, suite.mockNotifier,
	)

	suite.calendarID = uuid.NewString()
	suite.requesterID = uuid.NewString()
	suite.targetID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.shiftA = &domain.Shift{ShiftID: uuid.NewString(), EmployeeID: suite.requesterID}
	suite.shiftB = &domain.Shift{ShiftID: uuid.NewString(), EmployeeID: suite.targetID}
}

func (suite *SwapServiceTestSuite) activeSwap() *domain.ShiftSwapRequest {
	return &domain.ShiftSwapRequest{
		SwapID:            uuid.NewString(),
		RequestingShiftID: suite.shiftA.ShiftID,
		TargetShiftID:     suite.shiftB.ShiftID,
		RequestedByID:     suite.requesterID,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}
}

func (suite *SwapServiceTestSuite) membership(userID string) *domain.CalendarMembership {
	return &domain.CalendarMembership{UserID: userID, CalendarID: suite.calendarID}
}

func (suite *SwapServiceTestSuite) expectNotify() {
	suite.mockNotifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.mockNotifier.On("EmailIfEnabled", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
}

// --- Propose ---

func (suite *SwapServiceTestSuite) TestProposeSwap_Success() {
	ctx := context.Background()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftA.ShiftID).Return(suite.shiftA, nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftB.ShiftID).Return(suite.shiftB, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, suite.shiftA.ShiftID).Return(suite.calendarID, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, suite.shiftB.ShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.requesterID, suite.calendarID).
		Return(suite.membership(suite.requesterID), nil).Once()
	suite.mockSwapRepo.On("FindActiveSwapForPair", ctx, suite.shiftA.ShiftID, suite.shiftB.ShiftID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSwapRepo.On("SaveSwapRequest", ctx, mock.MatchedBy(func(r domain.ShiftSwapRequest) bool {
		return r.RequestedByID == suite.requesterID && r.IsActive && !r.ApprovedByTarget && !r.ApprovedByAdmin
	})).Return(nil).Once()
	suite.expectNotify()

	request, err := suite.service.ProposeSwap(ctx, suite.requesterID, suite.shiftA.ShiftID, suite.shiftB.ShiftID)

	suite.Require().NoError(err)
	suite.True(request.IsActive)
	suite.mockSwapRepo.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestProposeSwap_CrossCalendarRejected() {
	ctx := context.Background()
	otherCalendarID := uuid.NewString()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftA.ShiftID).Return(suite.shiftA, nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftB.ShiftID).Return(suite.shiftB, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, suite.shiftA.ShiftID).Return(suite.calendarID, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, suite.shiftB.ShiftID).Return(otherCalendarID, nil).Once()

	_, err := suite.service.ProposeSwap(ctx, suite.requesterID, suite.shiftA.ShiftID, suite.shiftB.ShiftID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "SaveSwapRequest", mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestProposeSwap_NotShiftOwnerForbidden() {
	ctx := context.Background()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftA.ShiftID).Return(suite.shiftA, nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftB.ShiftID).Return(suite.shiftB, nil).Once()

	// The target tries to propose with someone else's shift as the requesting side.
	_, err := suite.service.ProposeSwap(ctx, suite.targetID, suite.shiftA.ShiftID, suite.shiftB.ShiftID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *SwapServiceTestSuite) TestProposeSwap_DuplicatePairConflict() {
	ctx := context.Background()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftA.ShiftID).Return(suite.shiftA, nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, suite.shiftB.ShiftID).Return(suite.shiftB, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, mock.Anything).Return(suite.calendarID, nil).Twice()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.requesterID, suite.calendarID).
		Return(suite.membership(suite.requesterID), nil).Once()
	suite.mockSwapRepo.On("FindActiveSwapForPair", ctx, suite.shiftA.ShiftID, suite.shiftB.ShiftID).
		Return(suite.activeSwap(), nil).Once()

	_, err := suite.service.ProposeSwap(ctx, suite.requesterID, suite.shiftA.ShiftID, suite.shiftB.ShiftID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "SaveSwapRequest", mock.Anything, mock.Anything)
}

// --- Accept ---

func (suite *SwapServiceTestSuite) setupAcceptContext(request *domain.ShiftSwapRequest, actorID string, calendar *domain.Calendar) {
	ctx := context.Background()
	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(request, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, request.RequestingShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, actorID, suite.calendarID).
		Return(suite.membership(actorID), nil).Once()
	if calendar != nil {
		suite.mockCalendarRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	}
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_TargetFinalizesWhenPolicyAllows() {
	ctx := context.Background()
	request := suite.activeSwap()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: true}

	suite.setupAcceptContext(request, suite.targetID, calendar)
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockSwapRepo.On("FinalizeSwap", ctx, request.SwapID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.expectNotify()

	result, err := suite.service.AcceptSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().NoError(err)
	suite.True(result.Finalized)
	suite.False(result.PendingAdminApproval)
	suite.False(result.Request.IsActive)
	suite.True(result.Request.ApprovedByTarget)
	suite.True(result.Request.ApprovedByAdmin)
	suite.NotNil(result.Request.AcceptedAt)
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_TargetApprovalAwaitsAdminWhenPolicyRequires() {
	ctx := context.Background()
	request := suite.activeSwap()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: false}

	suite.setupAcceptContext(request, suite.targetID, calendar)
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockSwapRepo.On("MarkTargetApproved", ctx, request.SwapID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.expectNotify()

	result, err := suite.service.AcceptSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().NoError(err)
	suite.True(result.PendingAdminApproval)
	suite.False(result.Finalized)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "FinalizeSwap", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_AdminFinalizesAfterTargetApproval() {
	ctx := context.Background()
	request := suite.activeSwap()
	request.ApprovedByTarget = true
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: false}

	suite.setupAcceptContext(request, suite.adminID, calendar)
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.adminID, suite.calendarID, domain.PermApproveSwapRequests).
		Return(suite.membership(suite.adminID), nil).Once()
	suite.mockSwapRepo.On("FinalizeSwap", ctx, request.SwapID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.expectNotify()

	result, err := suite.service.AcceptSwap(ctx, suite.adminID, request.SwapID)

	suite.Require().NoError(err)
	suite.True(result.Finalized)
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_AdminCannotFinalizeBeforeTarget() {
	ctx := context.Background()
	request := suite.activeSwap()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: false}

	suite.setupAcceptContext(request, suite.adminID, calendar)
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.adminID, suite.calendarID, domain.PermApproveSwapRequests).
		Return(suite.membership(suite.adminID), nil).Once()

	_, err := suite.service.AcceptSwap(ctx, suite.adminID, request.SwapID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "FinalizeSwap", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_AlreadyFinalizedIsIdempotent() {
	ctx := context.Background()
	now := time.Now()
	request := suite.activeSwap()
	request.ApprovedByTarget = true
	request.ApprovedByAdmin = true
	request.IsActive = false
	request.AcceptedAt = &now

	suite.setupAcceptContext(request, suite.targetID, nil)

	result, err := suite.service.AcceptSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().NoError(err)
	suite.True(result.AlreadyFinalized)
	suite.False(result.Finalized)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "FinalizeSwap", mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestAcceptSwap_LostFinalizationRaceReportsFinalState() {
	ctx := context.Background()
	request := suite.activeSwap()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: true}

	suite.setupAcceptContext(request, suite.targetID, calendar)
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockSwapRepo.On("FinalizeSwap", ctx, request.SwapID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()

	now := time.Now()
	finalized := *request
	finalized.ApprovedByTarget = true
	finalized.ApprovedByAdmin = true
	finalized.IsActive = false
	finalized.AcceptedAt = &now
	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(&finalized, nil).Once()

	result, err := suite.service.AcceptSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().NoError(err)
	suite.True(result.AlreadyFinalized)
}

// --- Reject / Cancel ---

func (suite *SwapServiceTestSuite) TestRejectSwap_TargetRejects() {
	ctx := context.Background()
	request := suite.activeSwap()

	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(request, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, request.RequestingShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.targetID, suite.calendarID).
		Return(suite.membership(suite.targetID), nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.mockSwapRepo.On("DeactivateSwap", ctx, request.SwapID, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil
	})).Return(nil).Once()
	suite.expectNotify()

	err := suite.service.RejectSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().NoError(err)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "FinalizeSwap", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestCancelSwap_OnlyRequesterMayCancel() {
	ctx := context.Background()
	request := suite.activeSwap()

	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(request, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, request.RequestingShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.targetID, suite.calendarID).
		Return(suite.membership(suite.targetID), nil).Once()

	err := suite.service.CancelSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "DeactivateSwap", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestCancelSwap_ClearsWithoutRejectionTimestamp() {
	ctx := context.Background()
	request := suite.activeSwap()

	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(request, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, request.RequestingShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.requesterID, suite.calendarID).
		Return(suite.membership(suite.requesterID), nil).Once()
	suite.mockSwapRepo.On("DeactivateSwap", ctx, request.SwapID, (*time.Time)(nil)).Return(nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	suite.expectNotify()

	err := suite.service.CancelSwap(ctx, suite.requesterID, request.SwapID)

	suite.Require().NoError(err)
	suite.mockSwapRepo.AssertExpectations(suite.T())
}

func (suite *SwapServiceTestSuite) TestRejectSwap_RacedTerminalTransitionConflicts() {
	ctx := context.Background()
	request := suite.activeSwap()

	suite.mockSwapRepo.On("FindSwapByID", ctx, request.SwapID).Return(request, nil).Once()
	suite.mockScheduleRepo.On("FindCalendarIDForShift", ctx, request.RequestingShiftID).Return(suite.calendarID, nil).Once()
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.targetID, suite.calendarID).
		Return(suite.membership(suite.targetID), nil).Once()
	suite.mockScheduleRepo.On("FindShiftByID", ctx, request.TargetShiftID).Return(suite.shiftB, nil).Once()
	// Another actor finalized between the read and the write.
	suite.mockSwapRepo.On("DeactivateSwap", ctx, request.SwapID, mock.AnythingOfType("*time.Time")).
		Return(apperrors.NewConflictError("swap request " + request.SwapID + " is no longer active")).Once()

	err := suite.service.RejectSwap(ctx, suite.targetID, request.SwapID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Pending admin queue ---

func (suite *SwapServiceTestSuite) TestListPendingAdminSwaps_EmptyWhenPolicySkipsApproval() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: true}

	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.adminID, suite.calendarID, domain.PermApproveSwapRequests).
		Return(suite.membership(suite.adminID), nil).Once()
	suite.mockCalendarRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()

	requests, err := suite.service.ListPendingAdminSwaps(ctx, suite.adminID, suite.calendarID)

	suite.Require().NoError(err)
	suite.Empty(requests)
	suite.mockSwapRepo.AssertNotCalled(suite.T(), "ListPendingAdminSwaps", mock.Anything, mock.Anything)
}

func (suite *SwapServiceTestSuite) TestListPendingAdminSwaps_ListsWhenApprovalRequired() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, AllowSwapWithoutApproval: false}
	pending := *suite.activeSwap()
	pending.ApprovedByTarget = true

	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.adminID, suite.calendarID, domain.PermApproveSwapRequests).
		Return(suite.membership(suite.adminID), nil).Once()
	suite.mockCalendarRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	suite.mockSwapRepo.On("ListPendingAdminSwaps", ctx, suite.calendarID).
		Return([]domain.ShiftSwapRequest{pending}, nil).Once()

	requests, err := suite.service.ListPendingAdminSwaps(ctx, suite.adminID, suite.calendarID)

	suite.Require().NoError(err)
	suite.Len(requests, 1)
	suite.mockSwapRepo.AssertExpectations(suite.T())
}

func TestSwapServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SwapServiceTestSuite))
}
