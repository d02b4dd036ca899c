package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
)

const (
	defaultInboxPageSize = 20
	maxInboxPageSize     = 100
)

// NotificationService dispatches workflow notifications and serves the inbox.
// Inbox rows are authoritative; email is best effort on top.
type NotificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	emailSender      portssvc.EmailSender
}

// NewNotificationService creates a new NotificationService. emailSender may be a
// no-op implementation when email is not configured.
func NewNotificationService(nr portsrepo.NotificationRepositoryFacade, ur portsrepo.UserRepositoryFacade, sender portssvc.EmailSender) *NotificationService {
	return &NotificationService{
		notificationRepo: nr,
		userRepo:         ur,
		emailSender:      sender,
	}
}

var _ portssvc.NotificationSvcFacade = (*NotificationService)(nil)

// Notify creates one inbox notification row.
func (s *NotificationService) Notify(ctx context.Context, userID string, t domain.NotificationType, message string, relatedObjectID *string, calendarID *string) error {
	notification := domain.InboxNotification{
		NotificationID:  uuid.NewString(),
		UserID:          userID,
		CalendarID:      calendarID,
		Type:            t,
		Message:         message,
		IsRead:          false,
		IsActive:        true,
		RelatedObjectID: relatedObjectID,
		CreatedAt:       time.Now(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		s.LogError(ctx, err, "Failed to save notification",
			slog.String("user_id", userID),
			slog.String("type", string(t)))
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// EmailIfEnabled sends an email only when the user opted in and has an address.
// Delivery failures are logged and swallowed; they never fail the workflow that
// triggered them.
func (s *NotificationService) EmailIfEnabled(ctx context.Context, userID, subject, body string) {
	if s.emailSender == nil {
		return
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogWarn(ctx, "Skipping email, user lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}
	if !user.CanReceiveEmail() {
		return
	}
	if err := s.emailSender.SendEmail(ctx, *user.Email, subject, body); err != nil {
		s.LogError(ctx, err, "Failed to send notification email",
			slog.String("user_id", userID),
			slog.String("subject", subject))
	}
}

// ListInbox retrieves the actor's notifications newest first.
func (s *NotificationService) ListInbox(ctx context.Context, actorID string, unreadOnly bool, limit int, nextToken *string) ([]domain.InboxNotification, *string, error) {
	if limit <= 0 {
		limit = defaultInboxPageSize
	}
	if limit > maxInboxPageSize {
		limit = maxInboxPageSize
	}
	notifications, next, err := s.notificationRepo.ListNotificationsByUser(ctx, actorID, unreadOnly, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications", slog.String("user_id", actorID))
		return nil, nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, next, nil
}

// CountUnread counts the actor's unread notifications.
func (s *NotificationService) CountUnread(ctx context.Context, actorID string) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the actor's notifications read. The repository scopes the
// update to the actor, so foreign IDs read as not found.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(ctx, actorID, notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("notification not found")
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of the actor's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actorID string) error {
	if err := s.notificationRepo.MarkAllRead(ctx, actorID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Dismiss hides a notification from the actor's inbox.
func (s *NotificationService) Dismiss(ctx context.Context, actorID, notificationID string) error {
	if err := s.notificationRepo.DeactivateNotification(ctx, actorID, notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("notification not found")
		}
		return fmt.Errorf("failed to dismiss notification: %w", err)
	}
	return nil
}
