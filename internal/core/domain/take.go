package domain

import "time"

// TakeDirection distinguishes who initiated a one-directional reassignment.
type TakeDirection string

const (
	// TakeDirectionTake: the requester wants the shift from its current owner.
	TakeDirectionTake TakeDirection = "take"
	// TakeDirectionGive: the current owner wants to hand the shift to someone else.
	TakeDirectionGive TakeDirection = "give"
)

// ShiftTakeRequest proposes transferring a single shift between RequestedByID and
// RequestedToID. Direction is derived from who currently owns the shift, never
// stored, so it cannot diverge from ownership.
type ShiftTakeRequest struct {
	TakeID           string     `json:"takeID"` // Primary Key (UUID)
	ShiftID          string     `json:"shiftID"`
	RequestedByID    string     `json:"requestedByID"`
	RequestedToID    string     `json:"requestedToID"` // The party whose consent is required
	ApprovedByTarget bool       `json:"approvedByTarget"`
	ApprovedByAdmin  bool       `json:"approvedByAdmin"`
	IsActive         bool       `json:"isActive"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt       *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Direction derives the request direction from the shift's current owner.
// RequestedTo owning the shift means someone wants to take it; RequestedBy owning
// it means the owner wants to give it away.
func (r *ShiftTakeRequest) Direction(shiftOwnerID string) TakeDirection {
	if r.RequestedToID == shiftOwnerID {
		return TakeDirectionTake
	}
	return TakeDirectionGive
}

// NewOwnerID returns who owns the shift after finalization: whichever party is not
// the current owner.
func (r *ShiftTakeRequest) NewOwnerID(shiftOwnerID string) string {
	if r.RequestedByID == shiftOwnerID {
		return r.RequestedToID
	}
	return r.RequestedByID
}

// IsFinalized reports whether the transfer completed.
func (r *ShiftTakeRequest) IsFinalized() bool {
	return !r.IsActive && r.ApprovedByTarget && r.ApprovedByAdmin && r.RejectedAt == nil
}

// AwaitingAdmin reports whether the target accepted but an admin still has to act.
func (r *ShiftTakeRequest) AwaitingAdmin() bool {
	return r.IsActive && r.ApprovedByTarget && !r.ApprovedByAdmin
}
