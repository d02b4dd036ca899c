package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// TakeAcceptResult mirrors SwapAcceptResult for one-directional reassignments.
type TakeAcceptResult struct {
	Request              domain.ShiftTakeRequest
	Finalized            bool
	PendingAdminApproval bool
	AlreadyFinalized     bool
}

// TakeSvcFacade is the state machine governing one-directional shift reassignment.
type TakeSvcFacade interface {
	// ProposeTake creates a request over a single shift. direction "take" requires
	// the actor not to own the shift (consent falls to the current owner);
	// direction "give" requires the actor to own it (consent falls to the named
	// counterparty).
	ProposeTake(ctx context.Context, actorID, shiftID string, direction domain.TakeDirection, counterpartyUserID string) (*domain.ShiftTakeRequest, error)

	// AcceptTake advances the request. An admin or delegate cannot finalize before
	// the target has accepted; that call fails with a state conflict rather than
	// bypassing consent.
	AcceptTake(ctx context.Context, actorID, takeID string) (*TakeAcceptResult, error)

	// RejectTake terminates an active request without transferring ownership.
	RejectTake(ctx context.Context, actorID, takeID string) error

	// CancelTake lets the original requester withdraw a still-active request.
	CancelTake(ctx context.Context, actorID, takeID string) error

	// ListTakesForUser retrieves active requests the actor is a party to.
	ListTakesForUser(ctx context.Context, actorID string) ([]domain.ShiftTakeRequest, error)

	// ListPendingAdminTakes retrieves target-approved requests awaiting an admin.
	ListPendingAdminTakes(ctx context.Context, actorID, calendarID string) ([]domain.ShiftTakeRequest, error)
}
