package repositories

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// CalendarReader defines read operations for calendar data
type CalendarReader interface {
	// FindCalendarByID retrieves a calendar by its ID.
	FindCalendarByID(ctx context.Context, calendarID string) (*domain.Calendar, error)

	// FindCalendarByJoinCode retrieves a calendar by its unique join code.
	FindCalendarByJoinCode(ctx context.Context, joinCode string) (*domain.Calendar, error)

	// ListCalendarsByUserID retrieves all calendars a user is a member of.
	ListCalendarsByUserID(ctx context.Context, userID string) ([]domain.Calendar, error)
}

// CalendarWriter defines write operations for calendar data
type CalendarWriter interface {
	// SaveCalendar persists a new calendar.
	SaveCalendar(ctx context.Context, calendar domain.Calendar) error

	// UpdateCalendar persists name and policy flag changes.
	UpdateCalendar(ctx context.Context, calendar domain.Calendar) error

	// DeleteCalendar removes a calendar; roles, memberships, schedules and shifts
	// cascade at the database level.
	DeleteCalendar(ctx context.Context, calendarID string) error
}

// RoleManager defines operations for calendar-scoped roles
type RoleManager interface {
	// SaveRole persists a new role.
	SaveRole(ctx context.Context, role domain.CalendarRole) error

	// FindRoleByID retrieves a role by its ID.
	FindRoleByID(ctx context.Context, roleID string) (*domain.CalendarRole, error)

	// FindRoleByName retrieves a role by case-insensitive name within a calendar.
	FindRoleByName(ctx context.Context, calendarID, name string) (*domain.CalendarRole, error)

	// ListRolesByCalendar retrieves all roles of a calendar.
	ListRolesByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarRole, error)

	// UpdateRole persists name changes to a role.
	UpdateRole(ctx context.Context, role domain.CalendarRole) error

	// ReplaceRolePermissions replaces the role's permission set wholesale.
	ReplaceRolePermissions(ctx context.Context, roleID string, codes []domain.PermissionCode) error

	// CountMembershipsByRole counts memberships currently referencing the role.
	CountMembershipsByRole(ctx context.Context, roleID string) (int, error)

	// DeleteRole removes a role. Callers must ensure it is unreferenced first.
	DeleteRole(ctx context.Context, roleID string) error
}

// MembershipManager defines operations for calendar memberships
type MembershipManager interface {
	// SaveMembership persists a new membership.
	SaveMembership(ctx context.Context, membership domain.CalendarMembership) error

	// FindMembership retrieves the membership of a user in a calendar.
	FindMembership(ctx context.Context, userID, calendarID string) (*domain.CalendarMembership, error)

	// ListMembershipsByCalendar retrieves all memberships of a calendar.
	ListMembershipsByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarMembership, error)

	// UpdateMembership persists role, admin flag, color and permission overrides.
	UpdateMembership(ctx context.Context, membership domain.CalendarMembership) error

	// ColorTaken reports whether a display color is already used in the calendar.
	ColorTaken(ctx context.Context, calendarID, color string) (bool, error)

	// RemoveMembership deletes a membership and, in the same transaction, every
	// shift in that calendar currently owned by the member.
	RemoveMembership(ctx context.Context, userID, calendarID string) error
}

// HolidayManager defines operations for calendar holidays
type HolidayManager interface {
	SaveHoliday(ctx context.Context, holiday domain.Holiday) error
	ListHolidaysByCalendar(ctx context.Context, calendarID string) ([]domain.Holiday, error)
	DeleteHoliday(ctx context.Context, holidayID string) error
}

// CalendarRepositoryFacade combines all calendar-related repository interfaces
type CalendarRepositoryFacade interface {
	CalendarReader
	CalendarWriter
	RoleManager
	MembershipManager
	HolidayManager
}

// CalendarRepositoryWithTx extends CalendarRepositoryFacade with transaction capabilities
type CalendarRepositoryWithTx interface {
	CalendarRepositoryFacade
	TransactionManager
}
