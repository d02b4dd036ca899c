package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
)

type PgxSwapRepository struct {
	BaseRepository
}

func newPgxSwapRepository(pool *pgxpool.Pool) portsrepo.SwapRepositoryWithTx {
	return &PgxSwapRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SwapRepositoryWithTx = (*PgxSwapRepository)(nil)

var FULL_SWAP_SELECT_QUERY = `
SELECT
	sw.swap_id, sw.requesting_shift_id, sw.target_shift_id, sw.requested_by_id,
	sw.approved_by_target, sw.approved_by_admin, sw.is_active,
	sw.accepted_at, sw.rejected_at, sw.created_at
FROM shift_swap_requests sw
`

func (r *PgxSwapRepository) getSwaps(ctx context.Context, filterQuery string, args ...any) ([]domain.ShiftSwapRequest, error) {
	query := FULL_SWAP_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query swap requests", err)
	}
	defer rows.Close()
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ShiftSwapRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ShiftSwapRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect swap request rows", err)
	}
	return requests, nil
}

func (r *PgxSwapRepository) SaveSwapRequest(ctx context.Context, request domain.ShiftSwapRequest) error {
	query := `
		INSERT INTO shift_swap_requests (
			swap_id, requesting_shift_id, target_shift_id, requested_by_id,
			approved_by_target, approved_by_admin, is_active,
			accepted_at, rejected_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		request.SwapID,
		request.RequestingShiftID,
		request.TargetShiftID,
		request.RequestedByID,
		request.ApprovedByTarget,
		request.ApprovedByAdmin,
		request.IsActive,
		request.AcceptedAt,
		request.RejectedAt,
		request.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation on the active-pair index
				return apperrors.NewConflictError("an active swap request already exists for this shift pair")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced shift or user does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save swap request "+request.SwapID, err)
	}
	return nil
}

func (r *PgxSwapRepository) FindSwapByID(ctx context.Context, swapID string) (*domain.ShiftSwapRequest, error) {
	requests, err := r.getSwaps(ctx, `WHERE sw.swap_id = $1`, swapID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxSwapRepository) FindActiveSwapForPair(ctx context.Context, shiftAID, shiftBID string) (*domain.ShiftSwapRequest, error) {
	filter := `
		WHERE sw.is_active
			AND (
				(sw.requesting_shift_id = $1 AND sw.target_shift_id = $2)
				OR (sw.requesting_shift_id = $2 AND sw.target_shift_id = $1)
			)
	`
	requests, err := r.getSwaps(ctx, filter, shiftAID, shiftBID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxSwapRepository) ListSwapsForUser(ctx context.Context, userID string) ([]domain.ShiftSwapRequest, error) {
	filter := `
		JOIN shifts a ON a.shift_id = sw.requesting_shift_id
		JOIN shifts b ON b.shift_id = sw.target_shift_id
		WHERE sw.is_active AND (a.employee_id = $1 OR b.employee_id = $1)
		ORDER BY sw.created_at DESC
	`
	return r.getSwaps(ctx, filter, userID)
}

func (r *PgxSwapRepository) ListPendingAdminSwaps(ctx context.Context, calendarID string) ([]domain.ShiftSwapRequest, error) {
	filter := `
		JOIN shifts a ON a.shift_id = sw.requesting_shift_id
		JOIN schedules s ON s.schedule_id = a.schedule_id
		WHERE sw.is_active AND sw.approved_by_target AND NOT sw.approved_by_admin
			AND s.calendar_id = $1
		ORDER BY sw.created_at
	`
	return r.getSwaps(ctx, filter, calendarID)
}

func (r *PgxSwapRepository) MarkTargetApproved(ctx context.Context, swapID string, approvedAt time.Time) error {
	query := `
		UPDATE shift_swap_requests
		SET approved_by_target = TRUE
		WHERE swap_id = $1 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, swapID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark swap "+swapID+" target-approved", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedSwap(ctx, swapID)
	}
	return nil
}

// classifyMissedSwap resolves a zero-row update on an active-only filter: the
// request is either gone (ErrNotFound) or already terminal (conflict).
func (r *PgxSwapRepository) classifyMissedSwap(ctx context.Context, swapID string) error {
	var isActive bool
	err := r.Pool.QueryRow(ctx, `SELECT is_active FROM shift_swap_requests WHERE swap_id = $1;`, swapID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to check swap request "+swapID, err)
	}
	return apperrors.NewConflictError("swap request " + swapID + " is no longer active")
}

// FinalizeSwap exchanges the owners of both shifts and closes the request, all in
// one transaction. The request row is locked first; a request that lost the race
// and is no longer active yields ErrConflict with no changes. Every other active
// request touching either shift is torn down so no stale consent survives the
// ownership change.
func (r *PgxSwapRepository) FinalizeSwap(ctx context.Context, swapID string, acceptedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var requestingShiftID, targetShiftID string
	var isActive bool
	lockQuery := `
		SELECT requesting_shift_id, target_shift_id, is_active
		FROM shift_swap_requests
		WHERE swap_id = $1
		FOR UPDATE;
	`
	err = tx.QueryRow(ctx, lockQuery, swapID).Scan(&requestingShiftID, &targetShiftID, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock swap request "+swapID, err)
	}
	if !isActive {
		return apperrors.NewConflictError("swap request " + swapID + " is no longer active")
	}

	if err := deactivateRequestsForShifts(ctx, tx, swapID, requestingShiftID, targetShiftID); err != nil {
		return err
	}

	exchange := `
		UPDATE shifts sh
		SET employee_id = other.employee_id, last_updated_at = $3
		FROM shifts other
		WHERE sh.shift_id IN ($1, $2)
			AND other.shift_id IN ($1, $2)
			AND other.shift_id <> sh.shift_id;
	`
	tag, err := tx.Exec(ctx, exchange, requestingShiftID, targetShiftID, acceptedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to exchange shift owners for swap "+swapID, err)
	}
	if tag.RowsAffected() != 2 {
		return apperrors.NewConflictError("one of the shifts in swap " + swapID + " no longer exists")
	}

	closeQuery := `
		UPDATE shift_swap_requests
		SET approved_by_target = TRUE, approved_by_admin = TRUE,
			is_active = FALSE, accepted_at = $2
		WHERE swap_id = $1;
	`
	if _, err := tx.Exec(ctx, closeQuery, swapID, acceptedAt); err != nil {
		return apperrors.NewAppError(500, "failed to close swap request "+swapID, err)
	}

	// New owners mean any remaining consent on these shifts is void.
	if err := deactivateRequestsForShifts(ctx, tx, swapID, requestingShiftID, targetShiftID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// deactivateRequestsForShifts retires every active swap or take request, other
// than excludeSwapID, that references either shift.
func deactivateRequestsForShifts(ctx context.Context, tx pgx.Tx, excludeSwapID, shiftAID, shiftBID string) error {
	swapQuery := `
		UPDATE shift_swap_requests
		SET is_active = FALSE
		WHERE is_active AND swap_id <> $1
			AND (requesting_shift_id IN ($2, $3) OR target_shift_id IN ($2, $3));
	`
	if _, err := tx.Exec(ctx, swapQuery, excludeSwapID, shiftAID, shiftBID); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate competing swap requests", err)
	}
	takeQuery := `
		UPDATE shift_take_requests
		SET is_active = FALSE
		WHERE is_active AND shift_id IN ($1, $2);
	`
	if _, err := tx.Exec(ctx, takeQuery, shiftAID, shiftBID); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate competing take requests", err)
	}
	return nil
}

func (r *PgxSwapRepository) DeactivateSwap(ctx context.Context, swapID string, rejectedAt *time.Time) error {
	query := `
		UPDATE shift_swap_requests
		SET is_active = FALSE, rejected_at = $2
		WHERE swap_id = $1 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, swapID, rejectedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate swap request "+swapID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedSwap(ctx, swapID)
	}
	return nil
}
