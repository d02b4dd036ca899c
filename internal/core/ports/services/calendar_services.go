package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
)

// CalendarAuthorizerSvc is the authorization gate every protected operation runs
// through. A membership lookup miss fails closed with apperrors.ErrForbidden so
// calendar existence is never leaked; admins bypass the permission check.
type CalendarAuthorizerSvc interface {
	// AuthorizeCalendarAction verifies the actor is a member and is an admin or
	// holds the required permission. It returns the membership on success.
	AuthorizeCalendarAction(ctx context.Context, actorID, calendarID string, required domain.PermissionCode) (*domain.CalendarMembership, error)

	// RequireMembership verifies the actor is a member, with no permission check.
	RequireMembership(ctx context.Context, actorID, calendarID string) (*domain.CalendarMembership, error)

	// HasPermission reports whether the membership carries the permission,
	// resolving the role on demand.
	HasPermission(ctx context.Context, membership *domain.CalendarMembership, code domain.PermissionCode) (bool, error)
}

// CalendarReaderSvc exposes calendar reads for other services.
type CalendarReaderSvc interface {
	GetCalendar(ctx context.Context, actorID, calendarID string) (*domain.Calendar, error)
}

// CalendarSvcFacade handles calendars, roles, memberships and the permission
// resolver update operations.
type CalendarSvcFacade interface {
	CalendarAuthorizerSvc
	CalendarReaderSvc

	// CreateCalendar creates a calendar with a fresh join code, its default Staff
	// role plus any extra roles, and the creator as admin under the given title.
	CreateCalendar(ctx context.Context, creatorID string, req dto.CreateCalendarRequest) (*domain.Calendar, error)

	// ListUserCalendars retrieves the calendars the actor belongs to.
	ListUserCalendars(ctx context.Context, actorID string) ([]domain.Calendar, error)

	// LookupByJoinCode retrieves a calendar and its roles for the join screen.
	LookupByJoinCode(ctx context.Context, joinCode string) (*domain.Calendar, []domain.CalendarRole, error)

	// JoinByCode adds the actor as a member. Color must be free; a title is
	// required whenever the calendar has roles.
	JoinByCode(ctx context.Context, actorID string, req dto.JoinCalendarRequest) (*domain.CalendarMembership, error)

	// UpdateCalendarSettings updates the name and policy flags.
	UpdateCalendarSettings(ctx context.Context, actorID, calendarID string, req dto.UpdateCalendarSettingsRequest) (*domain.Calendar, error)

	// DeleteCalendar removes the calendar and everything scoped to it.
	DeleteCalendar(ctx context.Context, actorID, calendarID string) error

	// ListMembers retrieves all memberships of the calendar.
	ListMembers(ctx context.Context, actorID, calendarID string) ([]domain.CalendarMembership, error)

	// InviteMember adds an existing user to the calendar by username, assigning
	// a free display color. Inviting a current member returns their membership
	// unchanged.
	InviteMember(ctx context.Context, actorID, calendarID string, req dto.InviteMemberRequest) (*domain.CalendarMembership, error)

	// RemoveMember deletes a membership, cascading to the member's shifts in the
	// calendar, and notifies the removed user.
	RemoveMember(ctx context.Context, actorID, calendarID, memberUserID string) error

	// SetMemberRole assigns a role to a member. Members may change their own role
	// only when the calendar allows self role changes.
	SetMemberRole(ctx context.Context, actorID, calendarID, memberUserID string, roleID *string) (*domain.CalendarMembership, error)

	// SetMemberColor changes a member's display color, keeping it unique.
	SetMemberColor(ctx context.Context, actorID, calendarID, memberUserID, color string) (*domain.CalendarMembership, error)

	// SetMemberAdmin promotes or demotes a member.
	SetMemberAdmin(ctx context.Context, actorID, calendarID, memberUserID string, isAdmin bool) (*domain.CalendarMembership, error)

	// SetMemberPermissions persists selected codes as custom = selected − role and
	// excluded = role − selected, then recomputes the derived admin flag: a full
	// grant of every known code promotes to admin.
	SetMemberPermissions(ctx context.Context, actorID, calendarID, memberUserID string, selected []domain.PermissionCode) (*domain.CalendarMembership, error)

	// ListRoles retrieves the calendar's roles.
	ListRoles(ctx context.Context, actorID, calendarID string) ([]domain.CalendarRole, error)

	// CreateRole adds a role with a per-calendar case-insensitively unique name.
	CreateRole(ctx context.Context, actorID, calendarID, name string, permissions []domain.PermissionCode) (*domain.CalendarRole, error)

	// RenameRole renames a role, keeping names unique.
	RenameRole(ctx context.Context, actorID, calendarID, roleID, name string) (*domain.CalendarRole, error)

	// DeleteRole removes a role that no membership references.
	DeleteRole(ctx context.Context, actorID, calendarID, roleID string) error

	// SetRolePermissions replaces a role's permission set wholesale. Memberships
	// are untouched; their effective permissions shift on next read because
	// resolution is computed.
	SetRolePermissions(ctx context.Context, actorID, calendarID, roleID string, codes []domain.PermissionCode) (*domain.CalendarRole, error)

	// ListHolidays, AddHoliday and RemoveHoliday manage calendar holidays.
	ListHolidays(ctx context.Context, actorID, calendarID string) ([]domain.Holiday, error)
	AddHoliday(ctx context.Context, actorID, calendarID string, req dto.CreateHolidayRequest) (*domain.Holiday, error)
	RemoveHoliday(ctx context.Context, actorID, calendarID, holidayID string) error
}
