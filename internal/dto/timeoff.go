package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Time-off DTOs ---

// CreateTimeOffRequest defines data for filing a time-off request.
type CreateTimeOffRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
	Reason    string    `json:"reason" binding:"max=500"`
}

// TimeOffDecisionRequest approves or denies a pending request.
type TimeOffDecisionRequest struct {
	Approve bool `json:"approve"`
	// VisibleToOthers exposes an approved absence on the shared calendar view.
	VisibleToOthers bool `json:"visibleToOthers"`
	// RejectionReason accompanies a denial.
	RejectionReason *string `json:"rejectionReason,omitempty" binding:"omitempty,max=500"`
}

// TimeOffResponse defines data returned for a time-off request.
type TimeOffResponse struct {
	RequestID       string               `json:"requestID"`
	CalendarID      string               `json:"calendarID"`
	EmployeeID      string               `json:"employeeID"`
	StartDate       time.Time            `json:"startDate"`
	EndDate         time.Time            `json:"endDate"`
	Reason          string               `json:"reason"`
	Status          domain.TimeOffStatus `json:"status"`
	VisibleToOthers bool                 `json:"visibleToOthers"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToTimeOffResponse converts domain.TimeOffRequest to DTO.
func ToTimeOffResponse(r *domain.TimeOffRequest) TimeOffResponse {
	return TimeOffResponse{
		RequestID:       r.RequestID,
		CalendarID:      r.CalendarID,
		EmployeeID:      r.EmployeeID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Reason:          r.Reason,
		Status:          r.Status,
		VisibleToOthers: r.VisibleToOthers,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

// ListTimeOffResponse wraps a list of time-off requests.
type ListTimeOffResponse struct {
	Requests []TimeOffResponse `json:"requests"`
}

// ToListTimeOffResponse converts a slice of requests to DTO.
func ToListTimeOffResponse(rs []domain.TimeOffRequest) ListTimeOffResponse {
	list := make([]TimeOffResponse, len(rs))
	for i, r := range rs {
		list[i] = ToTimeOffResponse(&r)
	}
	return ListTimeOffResponse{Requests: list}
}
