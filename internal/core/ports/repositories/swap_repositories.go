package repositories

import (
	"context"
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// SwapReader defines read operations for shift swap requests
type SwapReader interface {
	// FindSwapByID retrieves a swap request by its ID, active or not.
	FindSwapByID(ctx context.Context, swapID string) (*domain.ShiftSwapRequest, error)

	// FindActiveSwapForPair retrieves the active request for an unordered shift
	// pair, if one exists.
	FindActiveSwapForPair(ctx context.Context, shiftAID, shiftBID string) (*domain.ShiftSwapRequest, error)

	// ListSwapsForUser retrieves active requests where the user owns either shift.
	ListSwapsForUser(ctx context.Context, userID string) ([]domain.ShiftSwapRequest, error)

	// ListPendingAdminSwaps retrieves active requests in the calendar that the
	// target accepted and an admin has yet to act on.
	ListPendingAdminSwaps(ctx context.Context, calendarID string) ([]domain.ShiftSwapRequest, error)
}

// SwapWriter defines write operations for shift swap requests
type SwapWriter interface {
	// SaveSwapRequest persists a new proposal.
	SaveSwapRequest(ctx context.Context, request domain.ShiftSwapRequest) error

	// MarkTargetApproved records the target employee's acceptance.
	MarkTargetApproved(ctx context.Context, swapID string, approvedAt time.Time) error

	// FinalizeSwap performs the ownership exchange in a single transaction: both
	// shifts' employee fields flip, the request's approval flags are set, IsActive
	// goes false with AcceptedAt, and every other active swap or take request
	// referencing either shift is deactivated, both before and after the owner
	// flip. The request row is locked; if it is no longer active the call returns
	// an error satisfying errors.Is(err, apperrors.ErrConflict) and nothing changes.
	FinalizeSwap(ctx context.Context, swapID string, acceptedAt time.Time) error

	// DeactivateSwap terminates a request without transferring ownership.
	// rejectedAt is set for rejections and nil for cancellations.
	DeactivateSwap(ctx context.Context, swapID string, rejectedAt *time.Time) error
}

// SwapRepositoryFacade combines all swap repository interfaces
type SwapRepositoryFacade interface {
	SwapReader
	SwapWriter
}

// SwapRepositoryWithTx extends SwapRepositoryFacade with transaction capabilities
type SwapRepositoryWithTx interface {
	SwapRepositoryFacade
	TransactionManager
}
