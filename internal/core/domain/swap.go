package domain

import "time"

// ShiftSwapRequest proposes exchanging ownership of two shifts in the same calendar.
// Terminal states are soft-deleted: IsActive flips to false and the timestamps below
// record the outcome, so history views keep working.
//
// Progress through the success path is tracked by the two approval flags:
// proposed (neither set) → target approved → finalized (both set, IsActive=false).
type ShiftSwapRequest struct {
	SwapID            string     `json:"swapID"` // Primary Key (UUID)
	RequestingShiftID string     `json:"requestingShiftID"`
	TargetShiftID     string     `json:"targetShiftID"`
	RequestedByID     string     `json:"requestedByID"` // Owner of the requesting shift at proposal time
	ApprovedByTarget  bool       `json:"approvedByTarget"`
	ApprovedByAdmin   bool       `json:"approvedByAdmin"`
	IsActive          bool       `json:"isActive"`
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt        *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// IsFinalized reports whether the exchange completed: both approvals recorded and
// the request no longer active without a rejection.
func (r *ShiftSwapRequest) IsFinalized() bool {
	return !r.IsActive && r.ApprovedByTarget && r.ApprovedByAdmin && r.RejectedAt == nil
}

// AwaitingAdmin reports whether the target accepted but an admin still has to act.
func (r *ShiftSwapRequest) AwaitingAdmin() bool {
	return r.IsActive && r.ApprovedByTarget && !r.ApprovedByAdmin
}

// References reports whether the request touches shiftID on either side.
func (r *ShiftSwapRequest) References(shiftID string) bool {
	return r.RequestingShiftID == shiftID || r.TargetShiftID == shiftID
}
