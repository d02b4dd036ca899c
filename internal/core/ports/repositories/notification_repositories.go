package repositories

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// NotificationReader defines read operations for inbox notifications
type NotificationReader interface {
	// FindNotificationByID retrieves a notification by its ID.
	FindNotificationByID(ctx context.Context, notificationID string) (*domain.InboxNotification, error)

	// ListNotificationsByUser retrieves a user's active notifications newest first,
	// paginated with an opaque cursor. A nil next token means the first page; a nil
	// returned token means the last page.
	ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.InboxNotification, *string, error)

	// CountUnread counts a user's unread active notifications.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// NotificationWriter defines write operations for inbox notifications
type NotificationWriter interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, notification domain.InboxNotification) error

	// MarkRead flips the read flag on one of the user's notifications.
	MarkRead(ctx context.Context, userID, notificationID string) error

	// MarkAllRead flips the read flag on all of the user's notifications.
	MarkAllRead(ctx context.Context, userID string) error

	// DeactivateNotification hides a notification from the inbox.
	DeactivateNotification(ctx context.Context, userID, notificationID string) error
}

// NotificationRepositoryFacade combines all notification repository interfaces
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
