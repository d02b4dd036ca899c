package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// EmailSender performs best-effort delivery of a single message. Implementations
// live outside the core (Gmail API, a no-op for development).
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// NotifierSvc is the dispatch contract the workflow engines consume on every state
// transition.
type NotifierSvc interface {
	// Notify creates one inbox notification row.
	Notify(ctx context.Context, userID string, t domain.NotificationType, message string, relatedObjectID *string, calendarID *string) error

	// EmailIfEnabled sends an email only when the user opted in and has an
	// address. It never returns an error: delivery failures are logged and
	// swallowed, they are not part of workflow correctness.
	EmailIfEnabled(ctx context.Context, userID, subject, body string)
}

// NotificationSvcFacade adds the user-facing inbox surface on top of dispatch.
type NotificationSvcFacade interface {
	NotifierSvc

	// ListInbox retrieves the actor's notifications newest first, paginated with
	// an opaque cursor.
	ListInbox(ctx context.Context, actorID string, unreadOnly bool, limit int, nextToken *string) ([]domain.InboxNotification, *string, error)

	// CountUnread counts the actor's unread notifications.
	CountUnread(ctx context.Context, actorID string) (int, error)

	// MarkRead marks one of the actor's notifications read.
	MarkRead(ctx context.Context, actorID, notificationID string) error

	// MarkAllRead marks all of the actor's notifications read.
	MarkAllRead(ctx context.Context, actorID string) error

	// Dismiss hides a notification from the actor's inbox.
	Dismiss(ctx context.Context, actorID, notificationID string) error
}
