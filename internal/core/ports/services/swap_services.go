package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// SwapAcceptResult reports what an Accept call did. Exactly one of Finalized and
// PendingAdminApproval is set on a state-changing call; AlreadyFinalized marks the
// idempotent no-op path for requests that had already completed.
type SwapAcceptResult struct {
	Request              domain.ShiftSwapRequest
	Finalized            bool
	PendingAdminApproval bool
	AlreadyFinalized     bool
}

// SwapSvcFacade is the state machine governing two-shift ownership exchanges.
type SwapSvcFacade interface {
	// ProposeSwap creates a request to exchange the actor's shift with the target
	// shift. Both shifts must live in the same calendar and the actor must own the
	// requesting shift.
	ProposeSwap(ctx context.Context, actorID, requestingShiftID, targetShiftID string) (*domain.ShiftSwapRequest, error)

	// AcceptSwap advances the request. The target employee (or a holder of
	// approve_reject_swap_requests) may call it; depending on calendar policy the
	// call either records target approval or finalizes the exchange atomically.
	// Accepting an already-finalized request is a no-op reporting the final state.
	AcceptSwap(ctx context.Context, actorID, swapID string) (*SwapAcceptResult, error)

	// RejectSwap terminates an active request without transferring ownership and
	// notifies the requester.
	RejectSwap(ctx context.Context, actorID, swapID string) error

	// CancelSwap lets the original requester withdraw a still-active request.
	CancelSwap(ctx context.Context, actorID, swapID string) error

	// ListSwapsForUser retrieves active requests involving the actor's shifts.
	ListSwapsForUser(ctx context.Context, actorID string) ([]domain.ShiftSwapRequest, error)

	// ListPendingAdminSwaps retrieves target-approved requests awaiting an admin,
	// which only exist in calendars where swaps require approval.
	ListPendingAdminSwaps(ctx context.Context, actorID, calendarID string) ([]domain.ShiftSwapRequest, error)
}
