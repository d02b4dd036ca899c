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
	"github.com/nathanmaher41/WorkScheduler/internal/utils/pagination"
)

type PgxScheduleRepository struct {
	BaseRepository
}

func newPgxScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryFacade {
	return &PgxScheduleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

var FULL_SCHEDULE_SELECT_QUERY = `
SELECT
	s.schedule_id, s.calendar_id, s.name, s.start_date, s.end_date, s.is_published,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM schedules s
`

var FULL_SHIFT_SELECT_QUERY = `
SELECT
	sh.shift_id, sh.schedule_id, sh.employee_id, sh.start_time, sh.end_time,
	sh.position, sh.notes,
	sh.created_at, sh.created_by, sh.last_updated_at, sh.last_updated_by
FROM shifts sh
`

func (r *PgxScheduleRepository) getSchedules(ctx context.Context, filterQuery string, args ...any) ([]domain.Schedule, error) {
	query := FULL_SCHEDULE_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query schedules", err)
	}
	defer rows.Close()
	schedules, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Schedule])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Schedule{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect schedule rows", err)
	}
	return schedules, nil
}

func (r *PgxScheduleRepository) getShifts(ctx context.Context, filterQuery string, args ...any) ([]domain.Shift, error) {
	query := FULL_SHIFT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query shifts", err)
	}
	defer rows.Close()
	shifts, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Shift])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Shift{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect shift rows", err)
	}
	return shifts, nil
}

// --- Schedules ---

func (r *PgxScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	query := `
		INSERT INTO schedules (
			schedule_id, calendar_id, name, start_date, end_date, is_published,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		schedule.ScheduleID,
		schedule.CalendarID,
		schedule.Name,
		schedule.StartDate,
		schedule.EndDate,
		schedule.IsPublished,
		schedule.CreatedAt,
		schedule.CreatedBy,
		schedule.LastUpdatedAt,
		schedule.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("calendar " + schedule.CalendarID + " does not exist")
		}
		return apperrors.NewAppError(500, "failed to save schedule "+schedule.ScheduleID, err)
	}
	return nil
}

func (r *PgxScheduleRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	schedules, err := r.getSchedules(ctx, `WHERE s.schedule_id = $1`, scheduleID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &schedules[0], nil
}

func (r *PgxScheduleRepository) ListSchedulesByCalendar(ctx context.Context, calendarID string) ([]domain.Schedule, error) {
	return r.getSchedules(ctx, `WHERE s.calendar_id = $1 ORDER BY s.start_date DESC`, calendarID)
}

func (r *PgxScheduleRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	query := `
		UPDATE schedules
		SET name = $2, start_date = $3, end_date = $4, is_published = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE schedule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		schedule.ScheduleID,
		schedule.Name,
		schedule.StartDate,
		schedule.EndDate,
		schedule.IsPublished,
		schedule.LastUpdatedAt,
		schedule.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update schedule "+schedule.ScheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxScheduleRepository) DeleteSchedule(ctx context.Context, scheduleID string) error {
	// Shifts and any requests referencing them cascade.
	tag, err := r.Pool.Exec(ctx, `DELETE FROM schedules WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete schedule "+scheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Shifts ---

func (r *PgxScheduleRepository) SaveShift(ctx context.Context, shift domain.Shift) error {
	query := `
		INSERT INTO shifts (
			shift_id, schedule_id, employee_id, start_time, end_time, position, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		shift.ShiftID,
		shift.ScheduleID,
		shift.EmployeeID,
		shift.StartTime,
		shift.EndTime,
		shift.Position,
		shift.Notes,
		shift.CreatedAt,
		shift.CreatedBy,
		shift.LastUpdatedAt,
		shift.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("referenced schedule or employee does not exist")
		}
		return apperrors.NewAppError(500, "failed to save shift "+shift.ShiftID, err)
	}
	return nil
}

func (r *PgxScheduleRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shifts, err := r.getShifts(ctx, `WHERE sh.shift_id = $1`, shiftID)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &shifts[0], nil
}

// ListShiftsBySchedule pages keyset-style over (start_time, shift_id) ascending.
func (r *PgxScheduleRepository) ListShiftsBySchedule(ctx context.Context, scheduleID string, limit int, nextToken *string) ([]domain.Shift, *string, error) {
	args := []any{scheduleID, limit + 1}
	filter := `WHERE sh.schedule_id = $1`
	if nextToken != nil {
		afterTime, afterID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		filter += ` AND (sh.start_time, sh.shift_id) > ($3, $4)`
		args = append(args, afterTime, afterID)
	}
	filter += ` ORDER BY sh.start_time, sh.shift_id LIMIT $2`

	shifts, err := r.getShifts(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(shifts) > limit {
		shifts = shifts[:limit]
		last := shifts[len(shifts)-1]
		encoded := pagination.EncodeCursor(last.StartTime, last.ShiftID)
		token = &encoded
	}
	if shifts == nil {
		shifts = []domain.Shift{}
	}
	return shifts, token, nil
}

func (r *PgxScheduleRepository) FindCalendarIDForShift(ctx context.Context, shiftID string) (string, error) {
	query := `
		SELECT s.calendar_id
		FROM shifts sh
		JOIN schedules s ON s.schedule_id = sh.schedule_id
		WHERE sh.shift_id = $1;
	`
	var calendarID string
	err := r.Pool.QueryRow(ctx, query, shiftID).Scan(&calendarID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.NewAppError(500, "failed to resolve calendar for shift "+shiftID, err)
	}
	return calendarID, nil
}

func (r *PgxScheduleRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	query := `
		UPDATE shifts
		SET employee_id = $2, start_time = $3, end_time = $4, position = $5, notes = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE shift_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		shift.ShiftID,
		shift.EmployeeID,
		shift.StartTime,
		shift.EndTime,
		shift.Position,
		shift.Notes,
		shift.LastUpdatedAt,
		shift.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("employee " + shift.EmployeeID + " does not exist")
		}
		return apperrors.NewAppError(500, "failed to update shift "+shift.ShiftID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxScheduleRepository) DeleteShift(ctx context.Context, shiftID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM shifts WHERE shift_id = $1`, shiftID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete shift "+shiftID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
