package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/core/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TimeOffServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockTimeOffRepository
	mockAuthorizer *MockCalendarAuthorizer
	mockNotifier   *MockNotifier
	service        *services.TimeOffService

	calendarID string
	employeeID string
	approverID string
}

func (suite *TimeOffServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTimeOffRepository)
	suite.mockAuthorizer = new(MockCalendarAuthorizer)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewTimeOffService(suite.mockRepo, suite.mockAuthorizer, suite.mockNotifier)

	suite.calendarID = uuid.NewString()
	suite.employeeID = uuid.NewString()
	suite.approverID = uuid.NewString()
}

func (suite *TimeOffServiceTestSuite) pendingRequest() *domain.TimeOffRequest {
	return &domain.TimeOffRequest{
		RequestID:  uuid.NewString(),
		CalendarID: suite.calendarID,
		EmployeeID: suite.employeeID,
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Reason:     "family visit",
		Status:     domain.TimeOffPending,
		CreatedAt:  time.Now(),
	}
}

func (suite *TimeOffServiceTestSuite) TestCreateTimeOff_StartsPending() {
	ctx := context.Background()
	req := dto.CreateTimeOffRequest{
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Reason:    "family visit",
	}
	suite.mockAuthorizer.On("RequireMembership", ctx, suite.employeeID, suite.calendarID).
		Return(&domain.CalendarMembership{UserID: suite.employeeID}, nil).Once()
	suite.mockRepo.On("SaveTimeOff", ctx, mock.MatchedBy(func(r domain.TimeOffRequest) bool {
		return r.Status == domain.TimeOffPending && r.EmployeeID == suite.employeeID && !r.VisibleToOthers
	})).Return(nil).Once()

	request, err := suite.service.CreateTimeOff(ctx, suite.employeeID, suite.calendarID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.TimeOffPending, request.Status)
}

func (suite *TimeOffServiceTestSuite) TestDecideTimeOff_ApproveSetsVisibilityAndNotifies() {
	ctx := context.Background()
	request := suite.pendingRequest()
	decision := dto.TimeOffDecisionRequest{Approve: true, VisibleToOthers: true}

	suite.mockRepo.On("FindTimeOffByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.approverID, suite.calendarID, domain.PermApproveTimeOff).
		Return(&domain.CalendarMembership{UserID: suite.approverID}, nil).Once()
	suite.mockRepo.On("UpdateTimeOff", ctx, mock.MatchedBy(func(r domain.TimeOffRequest) bool {
		return r.Status == domain.TimeOffApproved && r.VisibleToOthers && r.RejectionReason == nil
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.employeeID, domain.NotifTimeOffDecision, mock.AnythingOfType("string"), &request.RequestID, &request.CalendarID).
		Return(nil).Once()
	suite.mockNotifier.On("EmailIfEnabled", ctx, suite.employeeID, mock.Anything, mock.Anything).Return()

	updated, err := suite.service.DecideTimeOff(ctx, suite.approverID, request.RequestID, decision)

	suite.Require().NoError(err)
	suite.Equal(domain.TimeOffApproved, updated.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *TimeOffServiceTestSuite) TestDecideTimeOff_DenyRecordsReason() {
	ctx := context.Background()
	request := suite.pendingRequest()
	reason := "short staffed that week"
	decision := dto.TimeOffDecisionRequest{Approve: false, RejectionReason: &reason}

	suite.mockRepo.On("FindTimeOffByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.approverID, suite.calendarID, domain.PermApproveTimeOff).
		Return(&domain.CalendarMembership{UserID: suite.approverID}, nil).Once()
	suite.mockRepo.On("UpdateTimeOff", ctx, mock.MatchedBy(func(r domain.TimeOffRequest) bool {
		return r.Status == domain.TimeOffDenied && r.RejectionReason != nil && *r.RejectionReason == reason
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.employeeID, domain.NotifTimeOffDecision, mock.MatchedBy(func(msg string) bool {
		return msg == "Your time-off request was denied: short staffed that week"
	}), &request.RequestID, &request.CalendarID).Return(nil).Once()
	suite.mockNotifier.On("EmailIfEnabled", ctx, suite.employeeID, mock.Anything, mock.Anything).Return()

	updated, err := suite.service.DecideTimeOff(ctx, suite.approverID, request.RequestID, decision)

	suite.Require().NoError(err)
	suite.Equal(domain.TimeOffDenied, updated.Status)
}

func (suite *TimeOffServiceTestSuite) TestDecideTimeOff_AlreadyDecidedConflicts() {
	ctx := context.Background()
	request := suite.pendingRequest()
	request.Status = domain.TimeOffApproved

	suite.mockRepo.On("FindTimeOffByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthorizer.On("AuthorizeCalendarAction", ctx, suite.approverID, suite.calendarID, domain.PermApproveTimeOff).
		Return(&domain.CalendarMembership{UserID: suite.approverID}, nil).Once()

	_, err := suite.service.DecideTimeOff(ctx, suite.approverID, request.RequestID, dto.TimeOffDecisionRequest{Approve: true})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateTimeOff", mock.Anything, mock.Anything)
}

func (suite *TimeOffServiceTestSuite) TestCancelTimeOff_OnlyRequesterAndOnlyPending() {
	ctx := context.Background()
	request := suite.pendingRequest()

	suite.mockRepo.On("FindTimeOffByID", ctx, request.RequestID).Return(request, nil).Once()

	err := suite.service.CancelTimeOff(ctx, suite.approverID, request.RequestID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteTimeOff", mock.Anything, mock.Anything)
}

func TestTimeOffServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimeOffServiceTestSuite))
}
