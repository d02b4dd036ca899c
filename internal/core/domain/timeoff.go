package domain

import "time"

// TimeOffStatus is the approval state of a time-off request.
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest is an employee's request to be off between two dates.
type TimeOffRequest struct {
	RequestID  string        `json:"requestID"` // Primary Key (UUID)
	CalendarID string        `json:"calendarID"`
	EmployeeID string        `json:"employeeID"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	Reason     string        `json:"reason"`
	Status     TimeOffStatus `json:"status"`
	// VisibleToOthers exposes the approved absence on the shared calendar view.
	VisibleToOthers bool      `json:"visibleToOthers"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// IsPending reports whether the request still awaits a decision.
func (r *TimeOffRequest) IsPending() bool {
	return r.Status == TimeOffPending
}
