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

type PgxTakeRepository struct {
	BaseRepository
}

func newPgxTakeRepository(pool *pgxpool.Pool) portsrepo.TakeRepositoryWithTx {
	return &PgxTakeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TakeRepositoryWithTx = (*PgxTakeRepository)(nil)

var FULL_TAKE_SELECT_QUERY = `
SELECT
	t.take_id, t.shift_id, t.requested_by_id, t.requested_to_id,
	t.approved_by_target, t.approved_by_admin, t.is_active,
	t.accepted_at, t.rejected_at, t.created_at
FROM shift_take_requests t
`

func (r *PgxTakeRepository) getTakes(ctx context.Context, filterQuery string, args ...any) ([]domain.ShiftTakeRequest, error) {
	query := FULL_TAKE_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query take requests", err)
	}
	defer rows.Close()
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ShiftTakeRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ShiftTakeRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect take request rows", err)
	}
	return requests, nil
}

func (r *PgxTakeRepository) SaveTakeRequest(ctx context.Context, request domain.ShiftTakeRequest) error {
	query := `
		INSERT INTO shift_take_requests (
			take_id, shift_id, requested_by_id, requested_to_id,
			approved_by_target, approved_by_admin, is_active,
			accepted_at, rejected_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		request.TakeID,
		request.ShiftID,
		request.RequestedByID,
		request.RequestedToID,
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
			if pgErr.Code == "23505" { // unique_violation on the active-request index
				return apperrors.NewConflictError("an active take request already exists between these users for this shift")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced shift or user does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save take request "+request.TakeID, err)
	}
	return nil
}

func (r *PgxTakeRepository) FindTakeByID(ctx context.Context, takeID string) (*domain.ShiftTakeRequest, error) {
	requests, err := r.getTakes(ctx, `WHERE t.take_id = $1`, takeID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxTakeRepository) FindActiveTakeForShift(ctx context.Context, shiftID, requestedByID, requestedToID string) (*domain.ShiftTakeRequest, error) {
	filter := `
		WHERE t.is_active AND t.shift_id = $1
			AND t.requested_by_id = $2 AND t.requested_to_id = $3
	`
	requests, err := r.getTakes(ctx, filter, shiftID, requestedByID, requestedToID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxTakeRepository) ListTakesForUser(ctx context.Context, userID string) ([]domain.ShiftTakeRequest, error) {
	filter := `
		WHERE t.is_active AND (t.requested_by_id = $1 OR t.requested_to_id = $1)
		ORDER BY t.created_at DESC
	`
	return r.getTakes(ctx, filter, userID)
}

func (r *PgxTakeRepository) ListPendingAdminTakes(ctx context.Context, calendarID string) ([]domain.ShiftTakeRequest, error) {
	filter := `
		JOIN shifts sh ON sh.shift_id = t.shift_id
		JOIN schedules s ON s.schedule_id = sh.schedule_id
		WHERE t.is_active AND t.approved_by_target AND NOT t.approved_by_admin
			AND s.calendar_id = $1
		ORDER BY t.created_at
	`
	return r.getTakes(ctx, filter, calendarID)
}

func (r *PgxTakeRepository) MarkTargetApproved(ctx context.Context, takeID string, approvedAt time.Time) error {
	query := `
		UPDATE shift_take_requests
		SET approved_by_target = TRUE
		WHERE take_id = $1 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, takeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark take "+takeID+" target-approved", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedTake(ctx, takeID)
	}
	return nil
}

// classifyMissedTake resolves a zero-row update on an active-only filter: the
// request is either gone (ErrNotFound) or already terminal (conflict).
func (r *PgxTakeRepository) classifyMissedTake(ctx context.Context, takeID string) error {
	var isActive bool
	err := r.Pool.QueryRow(ctx, `SELECT is_active FROM shift_take_requests WHERE take_id = $1;`, takeID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to check take request "+takeID, err)
	}
	return apperrors.NewConflictError("take request " + takeID + " is no longer active")
}

// FinalizeTake reassigns the shift to newOwnerID and closes the request in one
// transaction. The request row is locked first; a request that lost the race and
// is no longer active yields ErrConflict with no changes. Every other active
// request touching the shift is torn down.
func (r *PgxTakeRepository) FinalizeTake(ctx context.Context, takeID string, newOwnerID string, acceptedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var shiftID string
	var isActive bool
	lockQuery := `
		SELECT shift_id, is_active
		FROM shift_take_requests
		WHERE take_id = $1
		FOR UPDATE;
	`
	err = tx.QueryRow(ctx, lockQuery, takeID).Scan(&shiftID, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock take request "+takeID, err)
	}
	if !isActive {
		return apperrors.NewConflictError("take request " + takeID + " is no longer active")
	}

	if err := deactivateRequestsForShift(ctx, tx, takeID, shiftID); err != nil {
		return err
	}

	reassign := `
		UPDATE shifts
		SET employee_id = $2, last_updated_at = $3
		WHERE shift_id = $1;
	`
	tag, err := tx.Exec(ctx, reassign, shiftID, newOwnerID, acceptedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reassign shift "+shiftID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError("shift " + shiftID + " no longer exists")
	}

	closeQuery := `
		UPDATE shift_take_requests
		SET approved_by_target = TRUE, approved_by_admin = TRUE,
			is_active = FALSE, accepted_at = $2
		WHERE take_id = $1;
	`
	if _, err := tx.Exec(ctx, closeQuery, takeID, acceptedAt); err != nil {
		return apperrors.NewAppError(500, "failed to close take request "+takeID, err)
	}

	return r.Commit(ctx, tx)
}

// deactivateRequestsForShift retires every active swap or take request, other than
// excludeTakeID, that references the shift.
func deactivateRequestsForShift(ctx context.Context, tx pgx.Tx, excludeTakeID, shiftID string) error {
	takeQuery := `
		UPDATE shift_take_requests
		SET is_active = FALSE
		WHERE is_active AND take_id <> $1 AND shift_id = $2;
	`
	if _, err := tx.Exec(ctx, takeQuery, excludeTakeID, shiftID); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate competing take requests", err)
	}
	swapQuery := `
		UPDATE shift_swap_requests
		SET is_active = FALSE
		WHERE is_active AND (requesting_shift_id = $1 OR target_shift_id = $1);
	`
	if _, err := tx.Exec(ctx, swapQuery, shiftID); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate competing swap requests", err)
	}
	return nil
}

func (r *PgxTakeRepository) DeactivateTake(ctx context.Context, takeID string, rejectedAt *time.Time) error {
	query := `
		UPDATE shift_take_requests
		SET is_active = FALSE, rejected_at = $2
		WHERE take_id = $1 AND is_active;
	`
	tag, err := r.Pool.Exec(ctx, query, takeID, rejectedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate take request "+takeID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedTake(ctx, takeID)
	}
	return nil
}
