package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Swap DTOs ---

// ProposeSwapRequest defines data for proposing a two-shift exchange.
type ProposeSwapRequest struct {
	RequestingShiftID string `json:"requestingShiftID" binding:"required"`
	TargetShiftID     string `json:"targetShiftID" binding:"required"`
}

// SwapResponse defines data returned for a swap request. RequiresAdminApproval is
// derived from calendar policy at serialization time so clients can explain
// pending state without re-deriving it.
type SwapResponse struct {
	SwapID                string     `json:"swapID"`
	RequestingShiftID     string     `json:"requestingShiftID"`
	TargetShiftID         string     `json:"targetShiftID"`
	RequestedByID         string     `json:"requestedByID"`
	ApprovedByTarget      bool       `json:"approvedByTarget"`
	ApprovedByAdmin       bool       `json:"approvedByAdmin"`
	IsActive              bool       `json:"isActive"`
	RequiresAdminApproval bool       `json:"requiresAdminApproval"`
	AcceptedAt            *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt            *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// ToSwapResponse converts a swap request to DTO given the owning calendar's policy.
func ToSwapResponse(r *domain.ShiftSwapRequest, calendar *domain.Calendar) SwapResponse {
	return SwapResponse{
		SwapID:                r.SwapID,
		RequestingShiftID:     r.RequestingShiftID,
		TargetShiftID:         r.TargetShiftID,
		RequestedByID:         r.RequestedByID,
		ApprovedByTarget:      r.ApprovedByTarget,
		ApprovedByAdmin:       r.ApprovedByAdmin,
		IsActive:              r.IsActive,
		RequiresAdminApproval: !calendar.AllowSwapWithoutApproval,
		AcceptedAt:            r.AcceptedAt,
		RejectedAt:            r.RejectedAt,
		CreatedAt:             r.CreatedAt,
	}
}

// SwapAcceptResponse reports what an accept call did.
type SwapAcceptResponse struct {
	Swap                 SwapResponse `json:"swap"`
	Finalized            bool         `json:"finalized"`
	PendingAdminApproval bool         `json:"pendingAdminApproval"`
	AlreadyFinalized     bool         `json:"alreadyFinalized"`
	Message              string       `json:"message"`
}

// ListSwapsResponse wraps a list of swap requests.
type ListSwapsResponse struct {
	Swaps []SwapResponse `json:"swaps"`
}
