package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// NotificationResponse defines data returned for an inbox notification.
type NotificationResponse struct {
	NotificationID  string                  `json:"notificationID"`
	CalendarID      *string                 `json:"calendarID,omitempty"`
	Type            domain.NotificationType `json:"type"`
	Message         string                  `json:"message"`
	IsRead          bool                    `json:"isRead"`
	RelatedObjectID *string                 `json:"relatedObjectID,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ToNotificationResponse converts domain.InboxNotification to DTO.
func ToNotificationResponse(n *domain.InboxNotification) NotificationResponse {
	return NotificationResponse{
		NotificationID:  n.NotificationID,
		CalendarID:      n.CalendarID,
		Type:            n.Type,
		Message:         n.Message,
		IsRead:          n.IsRead,
		RelatedObjectID: n.RelatedObjectID,
		CreatedAt:       n.CreatedAt,
	}
}

// ListNotificationsResponse wraps a page of notifications with the unread count
// and the cursor for the next page.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToListNotificationsResponse converts a page of notifications to DTO.
func ToListNotificationsResponse(ns []domain.InboxNotification, unread int, nextToken *string) ListNotificationsResponse {
	list := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		list[i] = ToNotificationResponse(&n)
	}
	return ListNotificationsResponse{Notifications: list, UnreadCount: unread, NextToken: nextToken}
}
