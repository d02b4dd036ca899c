package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
)

type PgxTimeOffRepository struct {
	BaseRepository
}

func newPgxTimeOffRepository(pool *pgxpool.Pool) portsrepo.TimeOffRepositoryFacade {
	return &PgxTimeOffRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TimeOffRepositoryFacade = (*PgxTimeOffRepository)(nil)

var FULL_TIMEOFF_SELECT_QUERY = `
SELECT
	t.request_id, t.calendar_id, t.employee_id, t.start_date, t.end_date,
	t.reason, t.status, t.visible_to_others, t.rejection_reason, t.created_at
FROM time_off_requests t
`

func (r *PgxTimeOffRepository) getTimeOffRequests(ctx context.Context, filterQuery string, args ...any) ([]domain.TimeOffRequest, error) {
	query := FULL_TIMEOFF_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query time-off requests", err)
	}
	defer rows.Close()
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.TimeOffRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.TimeOffRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect time-off rows", err)
	}
	return requests, nil
}

func (r *PgxTimeOffRepository) SaveTimeOff(ctx context.Context, request domain.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (
			request_id, calendar_id, employee_id, start_date, end_date,
			reason, status, visible_to_others, rejection_reason, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		request.RequestID,
		request.CalendarID,
		request.EmployeeID,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
		request.VisibleToOthers,
		request.RejectionReason,
		request.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("referenced calendar or employee does not exist")
		}
		return apperrors.NewAppError(500, "failed to save time-off request "+request.RequestID, err)
	}
	return nil
}

func (r *PgxTimeOffRepository) FindTimeOffByID(ctx context.Context, requestID string) (*domain.TimeOffRequest, error) {
	requests, err := r.getTimeOffRequests(ctx, `WHERE t.request_id = $1`, requestID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxTimeOffRepository) ListTimeOffByCalendar(ctx context.Context, calendarID string, status *domain.TimeOffStatus) ([]domain.TimeOffRequest, error) {
	if status != nil {
		return r.getTimeOffRequests(ctx, `WHERE t.calendar_id = $1 AND t.status = $2 ORDER BY t.created_at DESC`, calendarID, *status)
	}
	return r.getTimeOffRequests(ctx, `WHERE t.calendar_id = $1 ORDER BY t.created_at DESC`, calendarID)
}

func (r *PgxTimeOffRepository) ListTimeOffByEmployee(ctx context.Context, calendarID, employeeID string) ([]domain.TimeOffRequest, error) {
	return r.getTimeOffRequests(ctx, `WHERE t.calendar_id = $1 AND t.employee_id = $2 ORDER BY t.created_at DESC`, calendarID, employeeID)
}

func (r *PgxTimeOffRepository) UpdateTimeOff(ctx context.Context, request domain.TimeOffRequest) error {
	query := `
		UPDATE time_off_requests
		SET status = $2, visible_to_others = $3, rejection_reason = $4
		WHERE request_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		request.RequestID,
		request.Status,
		request.VisibleToOthers,
		request.RejectionReason,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update time-off request "+request.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTimeOffRepository) DeleteTimeOff(ctx context.Context, requestID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM time_off_requests WHERE request_id = $1`, requestID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete time-off request "+requestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
