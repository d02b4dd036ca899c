package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockNotificationRepository
	mockUserRepo *MockUserRepository
	mockSender   *MockEmailSender
	service      *services.NotificationService

	userID string
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockNotificationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSender = new(MockEmailSender)
	suite.service = services.NewNotificationService(suite.mockRepo, suite.mockUserRepo, suite.mockSender)
	suite.userID = uuid.NewString()
}

func (suite *NotificationServiceTestSuite) userWithEmail(notify bool) *domain.User {
	email := "worker@example.com"
	return &domain.User{
		UserID:      suite.userID,
		Username:    "worker",
		Email:       &email,
		NotifyEmail: notify,
	}
}

func (suite *NotificationServiceTestSuite) TestNotify_SavesInboxRow() {
	ctx := context.Background()
	calendarID := uuid.NewString()
	relatedID := uuid.NewString()

	suite.mockRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.InboxNotification) bool {
		return n.UserID == suite.userID &&
			n.Type == domain.NotifSwapRequested &&
			n.IsActive && !n.IsRead &&
			n.RelatedObjectID != nil && *n.RelatedObjectID == relatedID
	})).Return(nil).Once()

	err := suite.service.Notify(ctx, suite.userID, domain.NotifSwapRequested, "You have a new shift swap request.", &relatedID, &calendarID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestEmailIfEnabled_SendsWhenOptedIn() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.userWithEmail(true), nil).Once()
	suite.mockSender.On("SendEmail", ctx, "worker@example.com", "Subject", "Body").Return(nil).Once()

	suite.service.EmailIfEnabled(ctx, suite.userID, "Subject", "Body")

	suite.mockSender.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestEmailIfEnabled_SkipsWhenOptedOut() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.userWithEmail(false), nil).Once()

	suite.service.EmailIfEnabled(ctx, suite.userID, "Subject", "Body")

	suite.mockSender.AssertNotCalled(suite.T(), "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestEmailIfEnabled_SwallowsDeliveryFailure() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.userWithEmail(true), nil).Once()
	suite.mockSender.On("SendEmail", ctx, "worker@example.com", "Subject", "Body").
		Return(assert.AnError).Once()

	// Must not panic or surface the error.
	suite.service.EmailIfEnabled(ctx, suite.userID, "Subject", "Body")

	suite.mockSender.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestEmailIfEnabled_SkipsWhenUserLookupFails() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	suite.service.EmailIfEnabled(ctx, suite.userID, "Subject", "Body")

	suite.mockSender.AssertNotCalled(suite.T(), "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestListInbox_ClampsPageSize() {
	ctx := context.Background()
	suite.mockRepo.On("ListNotificationsByUser", ctx, suite.userID, false, 100, (*string)(nil)).
		Return([]domain.InboxNotification{}, nil, nil).Once()

	_, _, err := suite.service.ListInbox(ctx, suite.userID, false, 5000, nil)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkRead_UnknownIDIsNotFound() {
	ctx := context.Background()
	notificationID := uuid.NewString()
	suite.mockRepo.On("MarkRead", ctx, suite.userID, notificationID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.MarkRead(ctx, suite.userID, notificationID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
