package repositories

import (
	"context"
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// TakeReader defines read operations for shift take requests
type TakeReader interface {
	// FindTakeByID retrieves a take request by its ID, active or not.
	FindTakeByID(ctx context.Context, takeID string) (*domain.ShiftTakeRequest, error)

	// FindActiveTakeForShift retrieves the active request between two users over a
	// shift, if one exists.
	FindActiveTakeForShift(ctx context.Context, shiftID, requestedByID, requestedToID string) (*domain.ShiftTakeRequest, error)

	// ListTakesForUser retrieves active requests the user is a party to.
	ListTakesForUser(ctx context.Context, userID string) ([]domain.ShiftTakeRequest, error)

	// ListPendingAdminTakes retrieves active requests in the calendar that the
	// target accepted and an admin has yet to act on.
	ListPendingAdminTakes(ctx context.Context, calendarID string) ([]domain.ShiftTakeRequest, error)
}

// TakeWriter defines write operations for shift take requests
type TakeWriter interface {
	// SaveTakeRequest persists a new proposal.
	SaveTakeRequest(ctx context.Context, request domain.ShiftTakeRequest) error

	// MarkTargetApproved records the target party's acceptance.
	MarkTargetApproved(ctx context.Context, takeID string, approvedAt time.Time) error

	// FinalizeTake transfers the shift to newOwnerID in a single transaction: the
	// shift's employee field changes, the request's approval flags are set,
	// IsActive goes false with AcceptedAt, and every other active swap or take
	// request referencing the shift is deactivated. The request row is locked; if
	// it is no longer active the call returns an error satisfying
	// errors.Is(err, apperrors.ErrConflict) and nothing changes.
	FinalizeTake(ctx context.Context, takeID string, newOwnerID string, acceptedAt time.Time) error

	// DeactivateTake terminates a request without transferring ownership.
	// rejectedAt is set for rejections and nil for cancellations.
	DeactivateTake(ctx context.Context, takeID string, rejectedAt *time.Time) error
}

// TakeRepositoryFacade combines all take repository interfaces
type TakeRepositoryFacade interface {
	TakeReader
	TakeWriter
}

// TakeRepositoryWithTx extends TakeRepositoryFacade with transaction capabilities
type TakeRepositoryWithTx interface {
	TakeRepositoryFacade
	TransactionManager
}
