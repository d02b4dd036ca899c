package domain

import "time"

// NotificationType classifies an inbox entry so clients can render and deep-link it.
type NotificationType string

const (
	NotifSwapRequested   NotificationType = "swap_requested"
	NotifSwapAccepted    NotificationType = "swap_accepted"
	NotifSwapRejected    NotificationType = "swap_rejected"
	NotifSwapCanceled    NotificationType = "swap_canceled"
	NotifTakeRequested   NotificationType = "take_requested"
	NotifTakeAccepted    NotificationType = "take_accepted"
	NotifTakeRejected    NotificationType = "take_rejected"
	NotifTakeCanceled    NotificationType = "take_canceled"
	NotifTimeOffDecision NotificationType = "time_off_decision"
	NotifMemberRemoved   NotificationType = "member_removed"
	NotifCalendarInvite  NotificationType = "calendar_invite"
	NotifAnnouncement    NotificationType = "announcement"
)

// InboxNotification is an immutable-after-creation event record scoped to a user
// and usually a calendar. RelatedObjectID back-references a shift, schedule or
// invite token for client deep-linking.
type InboxNotification struct {
	NotificationID  string           `json:"notificationID"` // Primary Key (UUID)
	UserID          string           `json:"userID"`
	CalendarID      *string          `json:"calendarID,omitempty"`
	Type            NotificationType `json:"type"`
	Message         string           `json:"message"`
	IsRead          bool             `json:"isRead"`
	IsActive        bool             `json:"isActive"`
	RelatedObjectID *string          `json:"relatedObjectID,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}
