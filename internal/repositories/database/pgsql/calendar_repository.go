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

type PgxCalendarRepository struct {
	BaseRepository
}

// newPgxCalendarRepository creates a new repository for calendar, role and
// membership data.
func newPgxCalendarRepository(pool *pgxpool.Pool) portsrepo.CalendarRepositoryWithTx {
	return &PgxCalendarRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CalendarRepositoryWithTx = (*PgxCalendarRepository)(nil)

var FULL_CALENDAR_SELECT_QUERY = `
SELECT
	c.calendar_id, c.name, c.join_code, c.self_role_change_allowed,
	c.allow_swap_without_approval, c.require_take_approval,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM calendars c
`

func (r *PgxCalendarRepository) getCalendars(ctx context.Context, filterQuery string, args ...any) ([]domain.Calendar, error) {
	query := FULL_CALENDAR_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query calendars", err)
	}
	defer rows.Close()
	calendars, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Calendar])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Calendar{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect calendar rows", err)
	}
	return calendars, nil
}

// --- Calendars ---

func (r *PgxCalendarRepository) SaveCalendar(ctx context.Context, calendar domain.Calendar) error {
	query := `
		INSERT INTO calendars (
			calendar_id, name, join_code, self_role_change_allowed,
			allow_swap_without_approval, require_take_approval,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		calendar.CalendarID,
		calendar.Name,
		calendar.JoinCode,
		calendar.SelfRoleChangeAllowed,
		calendar.AllowSwapWithoutApproval,
		calendar.RequireTakeApproval,
		calendar.CreatedAt,
		calendar.CreatedBy,
		calendar.LastUpdatedAt,
		calendar.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("calendar join code " + calendar.JoinCode + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save calendar "+calendar.CalendarID, err)
	}
	return nil
}

func (r *PgxCalendarRepository) FindCalendarByID(ctx context.Context, calendarID string) (*domain.Calendar, error) {
	calendars, err := r.getCalendars(ctx, `WHERE c.calendar_id = $1`, calendarID)
	if err != nil {
		return nil, err
	}
	if len(calendars) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &calendars[0], nil
}

func (r *PgxCalendarRepository) FindCalendarByJoinCode(ctx context.Context, joinCode string) (*domain.Calendar, error) {
	calendars, err := r.getCalendars(ctx, `WHERE c.join_code = $1`, joinCode)
	if err != nil {
		return nil, err
	}
	if len(calendars) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &calendars[0], nil
}

func (r *PgxCalendarRepository) ListCalendarsByUserID(ctx context.Context, userID string) ([]domain.Calendar, error) {
	filter := `
		JOIN calendar_memberships m ON m.calendar_id = c.calendar_id
		WHERE m.user_id = $1
		ORDER BY c.name
	`
	return r.getCalendars(ctx, filter, userID)
}

func (r *PgxCalendarRepository) UpdateCalendar(ctx context.Context, calendar domain.Calendar) error {
	query := `
		UPDATE calendars
		SET name = $2, self_role_change_allowed = $3, allow_swap_without_approval = $4,
			require_take_approval = $5, last_updated_at = $6, last_updated_by = $7
		WHERE calendar_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		calendar.CalendarID,
		calendar.Name,
		calendar.SelfRoleChangeAllowed,
		calendar.AllowSwapWithoutApproval,
		calendar.RequireTakeApproval,
		calendar.LastUpdatedAt,
		calendar.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update calendar "+calendar.CalendarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCalendarRepository) DeleteCalendar(ctx context.Context, calendarID string) error {
	// Roles, memberships, schedules, shifts, requests and holidays cascade.
	tag, err := r.Pool.Exec(ctx, `DELETE FROM calendars WHERE calendar_id = $1`, calendarID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete calendar "+calendarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Roles ---

// scanRoles reads role rows, converting the permissions array by hand because
// the domain uses a named code type.
func scanRoles(rows pgx.Rows) ([]domain.CalendarRole, error) {
	defer rows.Close()
	var roles []domain.CalendarRole
	for rows.Next() {
		var role domain.CalendarRole
		var perms []string
		if err := rows.Scan(&role.RoleID, &role.CalendarID, &role.Name, &perms); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan role row", err)
		}
		role.Permissions = toPermissionCodes(perms)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read role rows", err)
	}
	return roles, nil
}

func toPermissionCodes(perms []string) []domain.PermissionCode {
	codes := make([]domain.PermissionCode, len(perms))
	for i, p := range perms {
		codes[i] = domain.PermissionCode(p)
	}
	return codes
}

func fromPermissionCodes(codes []domain.PermissionCode) []string {
	perms := make([]string, len(codes))
	for i, c := range codes {
		perms[i] = string(c)
	}
	return perms
}

const roleSelectQuery = `
	SELECT r.role_id, r.calendar_id, r.name, r.permissions
	FROM calendar_roles r
`

func (r *PgxCalendarRepository) SaveRole(ctx context.Context, role domain.CalendarRole) error {
	query := `
		INSERT INTO calendar_roles (role_id, calendar_id, name, permissions)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		role.RoleID,
		role.CalendarID,
		role.Name,
		fromPermissionCodes(role.Permissions),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("role " + role.Name + " already exists in calendar")
		}
		return apperrors.NewAppError(500, "failed to save role "+role.RoleID, err)
	}
	return nil
}

func (r *PgxCalendarRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.CalendarRole, error) {
	rows, err := r.Pool.Query(ctx, roleSelectQuery+`WHERE r.role_id = $1`, roleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query role", err)
	}
	roles, err := scanRoles(rows)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &roles[0], nil
}

func (r *PgxCalendarRepository) FindRoleByName(ctx context.Context, calendarID, name string) (*domain.CalendarRole, error) {
	rows, err := r.Pool.Query(ctx, roleSelectQuery+`WHERE r.calendar_id = $1 AND lower(r.name) = lower($2)`, calendarID, name)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query role by name", err)
	}
	roles, err := scanRoles(rows)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &roles[0], nil
}

func (r *PgxCalendarRepository) ListRolesByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarRole, error) {
	rows, err := r.Pool.Query(ctx, roleSelectQuery+`WHERE r.calendar_id = $1 ORDER BY r.name`, calendarID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query roles", err)
	}
	roles, err := scanRoles(rows)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []domain.CalendarRole{}
	}
	return roles, nil
}

func (r *PgxCalendarRepository) UpdateRole(ctx context.Context, role domain.CalendarRole) error {
	query := `UPDATE calendar_roles SET name = $2 WHERE role_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, role.RoleID, role.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("role " + role.Name + " already exists in calendar")
		}
		return apperrors.NewAppError(500, "failed to update role "+role.RoleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCalendarRepository) ReplaceRolePermissions(ctx context.Context, roleID string, codes []domain.PermissionCode) error {
	query := `UPDATE calendar_roles SET permissions = $2 WHERE role_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, roleID, fromPermissionCodes(codes))
	if err != nil {
		return apperrors.NewAppError(500, "failed to replace permissions for role "+roleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCalendarRepository) CountMembershipsByRole(ctx context.Context, roleID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM calendar_memberships WHERE role_id = $1`, roleID).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count memberships for role "+roleID, err)
	}
	return count, nil
}

func (r *PgxCalendarRepository) DeleteRole(ctx context.Context, roleID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM calendar_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete role "+roleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Memberships ---

const membershipSelectQuery = `
	SELECT m.user_id, m.calendar_id, m.role_id, m.is_admin, m.color,
		m.custom_permissions, m.excluded_permissions, m.joined_at
	FROM calendar_memberships m
`

func scanMemberships(rows pgx.Rows) ([]domain.CalendarMembership, error) {
	defer rows.Close()
	var memberships []domain.CalendarMembership
	for rows.Next() {
		var m domain.CalendarMembership
		var custom, excluded []string
		if err := rows.Scan(&m.UserID, &m.CalendarID, &m.RoleID, &m.IsAdmin, &m.Color,
			&custom, &excluded, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		m.CustomPermissions = toPermissionCodes(custom)
		m.ExcludedPermissions = toPermissionCodes(excluded)
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read membership rows", err)
	}
	return memberships, nil
}

func (r *PgxCalendarRepository) SaveMembership(ctx context.Context, membership domain.CalendarMembership) error {
	query := `
		INSERT INTO calendar_memberships (
			user_id, calendar_id, role_id, is_admin, color,
			custom_permissions, excluded_permissions, joined_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.CalendarID,
		membership.RoleID,
		membership.IsAdmin,
		membership.Color,
		fromPermissionCodes(membership.CustomPermissions),
		fromPermissionCodes(membership.ExcludedPermissions),
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewDuplicateError("user " + membership.UserID + " is already a member of calendar " + membership.CalendarID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced user, calendar or role does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save membership", err)
	}
	return nil
}

func (r *PgxCalendarRepository) FindMembership(ctx context.Context, userID, calendarID string) (*domain.CalendarMembership, error) {
	rows, err := r.Pool.Query(ctx, membershipSelectQuery+`WHERE m.user_id = $1 AND m.calendar_id = $2`, userID, calendarID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query membership", err)
	}
	memberships, err := scanMemberships(rows)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &memberships[0], nil
}

func (r *PgxCalendarRepository) ListMembershipsByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarMembership, error) {
	rows, err := r.Pool.Query(ctx, membershipSelectQuery+`WHERE m.calendar_id = $1 ORDER BY m.joined_at`, calendarID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memberships", err)
	}
	memberships, err := scanMemberships(rows)
	if err != nil {
		return nil, err
	}
	if memberships == nil {
		memberships = []domain.CalendarMembership{}
	}
	return memberships, nil
}

func (r *PgxCalendarRepository) UpdateMembership(ctx context.Context, membership domain.CalendarMembership) error {
	query := `
		UPDATE calendar_memberships
		SET role_id = $3, is_admin = $4, color = $5,
			custom_permissions = $6, excluded_permissions = $7
		WHERE user_id = $1 AND calendar_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.CalendarID,
		membership.RoleID,
		membership.IsAdmin,
		membership.Color,
		fromPermissionCodes(membership.CustomPermissions),
		fromPermissionCodes(membership.ExcludedPermissions),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("color " + membership.Color + " is already taken in calendar " + membership.CalendarID)
		}
		return apperrors.NewAppError(500, "failed to update membership", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCalendarRepository) ColorTaken(ctx context.Context, calendarID, color string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM calendar_memberships WHERE calendar_id = $1 AND lower(color) = lower($2))`
	if err := r.Pool.QueryRow(ctx, query, calendarID, color).Scan(&taken); err != nil {
		return false, apperrors.NewAppError(500, "failed to check color availability", err)
	}
	return taken, nil
}

// RemoveMembership deletes the membership and, in the same transaction, every
// shift in the calendar still owned by the departing member.
func (r *PgxCalendarRepository) RemoveMembership(ctx context.Context, userID, calendarID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	shiftCleanup := `
		DELETE FROM shifts sh
		USING schedules s
		WHERE sh.schedule_id = s.schedule_id
			AND s.calendar_id = $2
			AND sh.employee_id = $1;
	`
	if _, err := tx.Exec(ctx, shiftCleanup, userID, calendarID); err != nil {
		return apperrors.NewAppError(500, "failed to remove member shifts", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM calendar_memberships WHERE user_id = $1 AND calendar_id = $2`, userID, calendarID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove membership", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// --- Holidays ---

func (r *PgxCalendarRepository) SaveHoliday(ctx context.Context, holiday domain.Holiday) error {
	query := `
		INSERT INTO holidays (
			holiday_id, calendar_id, date, label, note,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		holiday.HolidayID,
		holiday.CalendarID,
		holiday.Date,
		holiday.Label,
		holiday.Note,
		holiday.CreatedAt,
		holiday.CreatedBy,
		holiday.LastUpdatedAt,
		holiday.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save holiday "+holiday.HolidayID, err)
	}
	return nil
}

func (r *PgxCalendarRepository) ListHolidaysByCalendar(ctx context.Context, calendarID string) ([]domain.Holiday, error) {
	query := `
		SELECT h.holiday_id, h.calendar_id, h.date, h.label, h.note,
			h.created_at, h.created_by, h.last_updated_at, h.last_updated_by
		FROM holidays h
		WHERE h.calendar_id = $1
		ORDER BY h.date;
	`
	rows, err := r.Pool.Query(ctx, query, calendarID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query holidays", err)
	}
	defer rows.Close()
	holidays, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Holiday])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Holiday{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect holiday rows", err)
	}
	return holidays, nil
}

func (r *PgxCalendarRepository) DeleteHoliday(ctx context.Context, holidayID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM holidays WHERE holiday_id = $1`, holidayID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete holiday "+holidayID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
