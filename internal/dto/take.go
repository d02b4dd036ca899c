package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Take DTOs ---

// ProposeTakeRequest defines data for proposing a one-directional reassignment.
// CounterpartyUserID is required for "give" and ignored for "take".
type ProposeTakeRequest struct {
	ShiftID            string               `json:"shiftID" binding:"required"`
	Direction          domain.TakeDirection `json:"direction" binding:"required,oneof=take give"`
	CounterpartyUserID string               `json:"counterpartyUserID"`
}

// TakeResponse defines data returned for a take request. Direction is derived
// from current shift ownership; RequiresAdminApproval from calendar policy.
type TakeResponse struct {
	TakeID                string               `json:"takeID"`
	ShiftID               string               `json:"shiftID"`
	RequestedByID         string               `json:"requestedByID"`
	RequestedToID         string               `json:"requestedToID"`
	Direction             domain.TakeDirection `json:"direction"`
	ApprovedByTarget      bool                 `json:"approvedByTarget"`
	ApprovedByAdmin       bool                 `json:"approvedByAdmin"`
	IsActive              bool                 `json:"isActive"`
	RequiresAdminApproval bool                 `json:"requiresAdminApproval"`
	AcceptedAt            *time.Time           `json:"acceptedAt,omitempty"`
	RejectedAt            *time.Time           `json:"rejectedAt,omitempty"`
	CreatedAt             time.Time            `json:"createdAt"`
}

// ToTakeResponse converts a take request to DTO given the shift's current owner
// and the owning calendar's policy.
func ToTakeResponse(r *domain.ShiftTakeRequest, shiftOwnerID string, calendar *domain.Calendar) TakeResponse {
	return TakeResponse{
		TakeID:                r.TakeID,
		ShiftID:               r.ShiftID,
		RequestedByID:         r.RequestedByID,
		RequestedToID:         r.RequestedToID,
		Direction:             r.Direction(shiftOwnerID),
		ApprovedByTarget:      r.ApprovedByTarget,
		ApprovedByAdmin:       r.ApprovedByAdmin,
		IsActive:              r.IsActive,
		RequiresAdminApproval: calendar.RequireTakeApproval,
		AcceptedAt:            r.AcceptedAt,
		RejectedAt:            r.RejectedAt,
		CreatedAt:             r.CreatedAt,
	}
}

// TakeAcceptResponse reports what an accept call did.
type TakeAcceptResponse struct {
	Take                 TakeResponse `json:"take"`
	Finalized            bool         `json:"finalized"`
	PendingAdminApproval bool         `json:"pendingAdminApproval"`
	AlreadyFinalized     bool         `json:"alreadyFinalized"`
	Message              string       `json:"message"`
}

// ListTakesResponse wraps a list of take requests.
type ListTakesResponse struct {
	Takes []TakeResponse `json:"takes"`
}
