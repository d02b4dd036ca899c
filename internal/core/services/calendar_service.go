package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/utils"
)

const (
	joinCodeLength      = 6
	joinCodeMaxAttempts = 10
)

// CalendarService handles calendars, roles, memberships and permission resolution.
type CalendarService struct {
	BaseService
	calendarRepo portsrepo.CalendarRepositoryFacade
	userRepo     portsrepo.UserReader
	notifier     portssvc.NotifierSvc
}

// NewCalendarService creates a new CalendarService. The notifier may be nil in
// tests; dispatch is then skipped.
func NewCalendarService(cr portsrepo.CalendarRepositoryFacade, ur portsrepo.UserReader, notifier portssvc.NotifierSvc) *CalendarService {
	return &CalendarService{
		calendarRepo: cr,
		userRepo:     ur,
		notifier:     notifier,
	}
}

// Ensure CalendarService implements the portssvc.CalendarSvcFacade interface
var _ portssvc.CalendarSvcFacade = (*CalendarService)(nil)

// AuthorizeCalendarAction verifies the actor is a member of the calendar and is
// an admin or holds the required permission. A membership lookup miss returns
// ErrForbidden, never ErrNotFound, so callers cannot probe which calendars exist.
func (s *CalendarService) AuthorizeCalendarAction(ctx context.Context, actorID, calendarID string, required domain.PermissionCode) (*domain.CalendarMembership, error) {
	membership, err := s.RequireMembership(ctx, actorID, calendarID)
	if err != nil {
		return nil, err
	}
	if membership.IsAdmin {
		return membership, nil
	}
	ok, err := s.HasPermission(ctx, membership, required)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.LogWarn(ctx, "Permission denied for calendar action",
			slog.String("actor_id", actorID),
			slog.String("calendar_id", calendarID),
			slog.String("required_permission", string(required)))
		return nil, fmt.Errorf("user %s lacks %s in calendar %s: %w", actorID, required, calendarID, apperrors.ErrForbidden)
	}
	return membership, nil
}

// RequireMembership verifies the actor belongs to the calendar, with no
// permission check.
func (s *CalendarService) RequireMembership(ctx context.Context, actorID, calendarID string) (*domain.CalendarMembership, error) {
	membership, err := s.calendarRepo.FindMembership(ctx, actorID, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s is not a member of calendar %s: %w", actorID, calendarID, apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "Failed to find membership",
			slog.String("actor_id", actorID),
			slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	return membership, nil
}

// HasPermission reports whether the membership carries the permission, resolving
// the role on demand so role edits are visible immediately.
func (s *CalendarService) HasPermission(ctx context.Context, membership *domain.CalendarMembership, code domain.PermissionCode) (bool, error) {
	if membership.IsAdmin {
		return true, nil
	}
	role, err := s.resolveRole(ctx, membership)
	if err != nil {
		return false, err
	}
	return membership.HasPermission(role, code), nil
}

// resolveRole loads the membership's role, or nil when it has none. A dangling
// role reference is treated as no role rather than an error.
func (s *CalendarService) resolveRole(ctx context.Context, membership *domain.CalendarMembership) (*domain.CalendarRole, error) {
	if membership.RoleID == nil {
		return nil, nil
	}
	role, err := s.calendarRepo.FindRoleByID(ctx, *membership.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Membership references missing role",
				slog.String("user_id", membership.UserID),
				slog.String("role_id", *membership.RoleID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	return role, nil
}

// CreateCalendar creates a calendar with a fresh join code, the default Staff
// role plus any requested extras, and the creator as its first admin.
func (s *CalendarService) CreateCalendar(ctx context.Context, creatorID string, req dto.CreateCalendarRequest) (*domain.Calendar, error) {
	joinCode, err := s.generateUniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	calendar := domain.Calendar{
		CalendarID:               uuid.NewString(),
		Name:                     req.Name,
		JoinCode:                 joinCode,
		SelfRoleChangeAllowed:    req.SelfRoleChangeAllowed,
		AllowSwapWithoutApproval: req.AllowSwapWithoutApproval,
		RequireTakeApproval:      req.RequireTakeApproval,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.calendarRepo.SaveCalendar(ctx, calendar); err != nil {
		s.LogError(ctx, err, "Failed to save calendar", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}

	// Every calendar starts with a Staff role carrying no permissions.
	staffRole := domain.CalendarRole{
		RoleID:      uuid.NewString(),
		CalendarID:  calendar.CalendarID,
		Name:        domain.DefaultRoleName,
		Permissions: []domain.PermissionCode{},
	}
	if err := s.calendarRepo.SaveRole(ctx, staffRole); err != nil {
		s.LogError(ctx, err, "Failed to create default role", slog.String("calendar_id", calendar.CalendarID))
		return nil, fmt.Errorf("failed to create default role: %w", err)
	}

	var creatorRoleID *string
	seen := map[string]string{strings.ToLower(staffRole.Name): staffRole.RoleID}
	for _, name := range req.Roles {
		name = capitalizeRoleName(name)
		if name == "" {
			continue
		}
		if _, exists := seen[strings.ToLower(name)]; exists {
			continue
		}
		role := domain.CalendarRole{
			RoleID:      uuid.NewString(),
			CalendarID:  calendar.CalendarID,
			Name:        name,
			Permissions: []domain.PermissionCode{},
		}
		if err := s.calendarRepo.SaveRole(ctx, role); err != nil {
			s.LogError(ctx, err, "Failed to create role", slog.String("role_name", name))
			return nil, fmt.Errorf("failed to create role %s: %w", name, err)
		}
		seen[strings.ToLower(name)] = role.RoleID
	}

	if title := capitalizeRoleName(req.CreatorTitle); title != "" {
		roleID, exists := seen[strings.ToLower(title)]
		if !exists {
			role := domain.CalendarRole{
				RoleID:      uuid.NewString(),
				CalendarID:  calendar.CalendarID,
				Name:        title,
				Permissions: []domain.PermissionCode{},
			}
			if err := s.calendarRepo.SaveRole(ctx, role); err != nil {
				s.LogError(ctx, err, "Failed to create creator role", slog.String("role_name", title))
				return nil, fmt.Errorf("failed to create role %s: %w", title, err)
			}
			roleID = role.RoleID
		}
		creatorRoleID = &roleID
	}

	membership := domain.CalendarMembership{
		UserID:              creatorID,
		CalendarID:          calendar.CalendarID,
		RoleID:              creatorRoleID,
		IsAdmin:             true,
		Color:               req.Color,
		CustomPermissions:   []domain.PermissionCode{},
		ExcludedPermissions: []domain.PermissionCode{},
		JoinedAt:            now,
	}
	if err := s.calendarRepo.SaveMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to save creator membership", slog.String("calendar_id", calendar.CalendarID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	s.LogInfo(ctx, "Calendar created",
		slog.String("calendar_id", calendar.CalendarID),
		slog.String("creator_id", creatorID))
	return &calendar, nil
}

func (s *CalendarService) generateUniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := utils.GenerateJoinCode(joinCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		_, err = s.calendarRepo.FindCalendarByJoinCode(ctx, code)
		if errors.Is(err, apperrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check join code uniqueness: %w", err)
		}
	}
	return "", fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeMaxAttempts)
}

// GetCalendar retrieves a calendar for a member.
func (s *CalendarService) GetCalendar(ctx context.Context, actorID, calendarID string) (*domain.Calendar, error) {
	if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("calendar %s not found", calendarID))
		}
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return calendar, nil
}

// ListUserCalendars retrieves the calendars the actor belongs to.
func (s *CalendarService) ListUserCalendars(ctx context.Context, actorID string) ([]domain.Calendar, error) {
	calendars, err := s.calendarRepo.ListCalendarsByUserID(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list calendars", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return calendars, nil
}

// LookupByJoinCode retrieves a calendar and its roles for the join screen. This
// is the one pre-membership read; an unknown code is a plain not found.
func (s *CalendarService) LookupByJoinCode(ctx context.Context, joinCode string) (*domain.Calendar, []domain.CalendarRole, error) {
	calendar, err := s.calendarRepo.FindCalendarByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(joinCode)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewNotFoundError("invalid join code")
		}
		return nil, nil, fmt.Errorf("failed to look up join code: %w", err)
	}
	roles, err := s.calendarRepo.ListRolesByCalendar(ctx, calendar.CalendarID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return calendar, roles, nil
}

// JoinByCode adds the actor as a member. A title is required whenever the
// calendar has roles. Joining a calendar the actor already belongs to returns
// the existing membership unchanged.
func (s *CalendarService) JoinByCode(ctx context.Context, actorID string, req dto.JoinCalendarRequest) (*domain.CalendarMembership, error) {
	calendar, roles, err := s.LookupByJoinCode(ctx, req.JoinCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.calendarRepo.FindMembership(ctx, actorID, calendar.CalendarID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if req.RoleID == nil && len(roles) > 0 {
		return nil, apperrors.NewValidationFailedError("a title is required to join this calendar")
	}
	if req.RoleID != nil {
		role, err := s.calendarRepo.FindRoleByID(ctx, *req.RoleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("role not found")
			}
			return nil, fmt.Errorf("failed to validate role: %w", err)
		}
		if role.CalendarID != calendar.CalendarID {
			return nil, apperrors.NewValidationFailedError("role does not belong to this calendar")
		}
	}

	taken, err := s.calendarRepo.ColorTaken(ctx, calendar.CalendarID, req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to check color availability: %w", err)
	}
	if taken {
		return nil, apperrors.NewValidationFailedError("color already taken")
	}

	membership := domain.CalendarMembership{
		UserID:              actorID,
		CalendarID:          calendar.CalendarID,
		RoleID:              req.RoleID,
		IsAdmin:             false,
		Color:               req.Color,
		CustomPermissions:   []domain.PermissionCode{},
		ExcludedPermissions: []domain.PermissionCode{},
		JoinedAt:            time.Now(),
	}
	if err := s.calendarRepo.SaveMembership(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError("already a member of this calendar")
		}
		s.LogError(ctx, err, "Failed to save membership", slog.String("calendar_id", calendar.CalendarID))
		return nil, fmt.Errorf("failed to join calendar: %w", err)
	}

	s.LogInfo(ctx, "Member joined calendar",
		slog.String("calendar_id", calendar.CalendarID),
		slog.String("user_id", actorID))
	return &membership, nil
}

// UpdateCalendarSettings updates the name and policy flags.
func (s *CalendarService) UpdateCalendarSettings(ctx context.Context, actorID, calendarID string, req dto.UpdateCalendarSettingsRequest) (*domain.Calendar, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageCalendarSettings); err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("calendar %s not found", calendarID))
		}
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	if req.Name != nil {
		calendar.Name = *req.Name
	}
	if req.SelfRoleChangeAllowed != nil {
		calendar.SelfRoleChangeAllowed = *req.SelfRoleChangeAllowed
	}
	if req.AllowSwapWithoutApproval != nil {
		calendar.AllowSwapWithoutApproval = *req.AllowSwapWithoutApproval
	}
	if req.RequireTakeApproval != nil {
		calendar.RequireTakeApproval = *req.RequireTakeApproval
	}
	calendar.LastUpdatedAt = time.Now()
	calendar.LastUpdatedBy = actorID

	if err := s.calendarRepo.UpdateCalendar(ctx, *calendar); err != nil {
		s.LogError(ctx, err, "Failed to update calendar settings", slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to update calendar: %w", err)
	}
	return calendar, nil
}

// DeleteCalendar removes the calendar and everything scoped to it. Admin only;
// no permission code grants deletion.
func (s *CalendarService) DeleteCalendar(ctx context.Context, actorID, calendarID string) error {
	membership, err := s.RequireMembership(ctx, actorID, calendarID)
	if err != nil {
		return err
	}
	if !membership.IsAdmin {
		return fmt.Errorf("only admins may delete a calendar: %w", apperrors.ErrForbidden)
	}
	if err := s.calendarRepo.DeleteCalendar(ctx, calendarID); err != nil {
		s.LogError(ctx, err, "Failed to delete calendar", slog.String("calendar_id", calendarID))
		return fmt.Errorf("failed to delete calendar: %w", err)
	}
	s.LogInfo(ctx, "Calendar deleted",
		slog.String("calendar_id", calendarID),
		slog.String("actor_id", actorID))
	return nil
}

// ListMembers retrieves all memberships of the calendar.
func (s *CalendarService) ListMembers(ctx context.Context, actorID, calendarID string) ([]domain.CalendarMembership, error) {
	if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	members, err := s.calendarRepo.ListMembershipsByCalendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// defaultMemberColors is the palette drawn from when a member is added without
// choosing a color, in assignment order.
var defaultMemberColors = []string{
	"#E53E3E", "#DD6B20", "#D69E2E", "#38A169", "#319795",
	"#3182CE", "#5A67D8", "#805AD5", "#D53F8C", "#718096",
}

// InviteMember adds an existing user to the calendar by username. The inviter
// needs the invite_remove_members permission; the invited user gets a free
// display color and an inbox notification. Inviting a current member returns
// their membership unchanged.
func (s *CalendarService) InviteMember(ctx context.Context, actorID, calendarID string, req dto.InviteMemberRequest) (*domain.CalendarMembership, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermInviteRemoveMembers); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", req.Username))
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	existing, err := s.calendarRepo.FindMembership(ctx, user.UserID, calendarID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if req.RoleID != nil {
		role, err := s.calendarRepo.FindRoleByID(ctx, *req.RoleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("role not found")
			}
			return nil, fmt.Errorf("failed to validate role: %w", err)
		}
		if role.CalendarID != calendarID {
			return nil, apperrors.NewValidationFailedError("role does not belong to this calendar")
		}
	}

	color, err := s.pickFreeColor(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	membership := domain.CalendarMembership{
		UserID:              user.UserID,
		CalendarID:          calendarID,
		RoleID:              req.RoleID,
		IsAdmin:             false,
		Color:               color,
		CustomPermissions:   []domain.PermissionCode{},
		ExcludedPermissions: []domain.PermissionCode{},
		JoinedAt:            time.Now(),
	}
	if err := s.calendarRepo.SaveMembership(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError("user is already a member of this calendar")
		}
		s.LogError(ctx, err, "Failed to save invited membership", slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	if s.notifier != nil {
		calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
		name := calendarID
		if err == nil {
			name = calendar.Name
		}
		msg := fmt.Sprintf("You have been added to %s.", name)
		if err := s.notifier.Notify(ctx, user.UserID, domain.NotifCalendarInvite, msg, nil, &calendarID); err != nil {
			s.LogError(ctx, err, "Failed to notify invited member", slog.String("member_user_id", user.UserID))
		}
	}

	s.LogInfo(ctx, "Member invited",
		slog.String("calendar_id", calendarID),
		slog.String("member_user_id", user.UserID),
		slog.String("actor_id", actorID))
	return &membership, nil
}

// pickFreeColor returns the first palette color not already used in the
// calendar, falling back to random colors once the palette is exhausted.
func (s *CalendarService) pickFreeColor(ctx context.Context, calendarID string) (string, error) {
	for _, color := range defaultMemberColors {
		taken, err := s.calendarRepo.ColorTaken(ctx, calendarID, color)
		if err != nil {
			return "", fmt.Errorf("failed to check color availability: %w", err)
		}
		if !taken {
			return color, nil
		}
	}
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		raw, err := utils.GenerateSecureRandomString(3)
		if err != nil {
			return "", fmt.Errorf("failed to generate color: %w", err)
		}
		color := "#" + strings.ToUpper(raw)
		taken, err := s.calendarRepo.ColorTaken(ctx, calendarID, color)
		if err != nil {
			return "", fmt.Errorf("failed to check color availability: %w", err)
		}
		if !taken {
			return color, nil
		}
	}
	return "", fmt.Errorf("could not find a free member color after %d attempts", joinCodeMaxAttempts)
}

// RemoveMember deletes a membership together with the member's shifts in the
// calendar. Members may remove themselves (leave); removing someone else needs
// the invite_remove_members permission. The removed user is notified unless
// they left on their own.
func (s *CalendarService) RemoveMember(ctx context.Context, actorID, calendarID, memberUserID string) error {
	if actorID == memberUserID {
		if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
			return err
		}
	} else {
		if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermInviteRemoveMembers); err != nil {
			return err
		}
		if _, err := s.calendarRepo.FindMembership(ctx, memberUserID, calendarID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("member not found in this calendar")
			}
			return fmt.Errorf("failed to find member: %w", err)
		}
	}

	if err := s.calendarRepo.RemoveMembership(ctx, memberUserID, calendarID); err != nil {
		s.LogError(ctx, err, "Failed to remove membership",
			slog.String("calendar_id", calendarID),
			slog.String("member_user_id", memberUserID))
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if actorID != memberUserID && s.notifier != nil {
		calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
		name := calendarID
		if err == nil {
			name = calendar.Name
		}
		msg := fmt.Sprintf("You have been removed from %s.", name)
		if err := s.notifier.Notify(ctx, memberUserID, domain.NotifMemberRemoved, msg, nil, &calendarID); err != nil {
			s.LogError(ctx, err, "Failed to notify removed member", slog.String("member_user_id", memberUserID))
		}
	}

	s.LogInfo(ctx, "Member removed",
		slog.String("calendar_id", calendarID),
		slog.String("member_user_id", memberUserID),
		slog.String("actor_id", actorID))
	return nil
}

// SetMemberRole assigns a role to a member. Members may change their own role
// without assign_roles only when the calendar allows self role changes.
func (s *CalendarService) SetMemberRole(ctx context.Context, actorID, calendarID, memberUserID string, roleID *string) (*domain.CalendarMembership, error) {
	selfChange := actorID == memberUserID
	if selfChange {
		calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("calendar %s: %w", calendarID, apperrors.ErrForbidden)
			}
			return nil, fmt.Errorf("failed to get calendar: %w", err)
		}
		if !calendar.SelfRoleChangeAllowed {
			selfChange = false
		}
	}
	if selfChange {
		if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermAssignRoles); err != nil {
			return nil, err
		}
	}

	membership, err := s.findTargetMembership(ctx, memberUserID, calendarID)
	if err != nil {
		return nil, err
	}

	if roleID != nil {
		role, err := s.calendarRepo.FindRoleByID(ctx, *roleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("role not found")
			}
			return nil, fmt.Errorf("failed to validate role: %w", err)
		}
		if role.CalendarID != calendarID {
			return nil, apperrors.NewValidationFailedError("role does not belong to this calendar")
		}
	}

	membership.RoleID = roleID
	if err := s.calendarRepo.UpdateMembership(ctx, *membership); err != nil {
		s.LogError(ctx, err, "Failed to update member role", slog.String("member_user_id", memberUserID))
		return nil, fmt.Errorf("failed to set member role: %w", err)
	}
	return membership, nil
}

// SetMemberColor changes a member's display color, keeping it unique within the
// calendar. Members may recolor themselves; recoloring others needs manage_colors.
func (s *CalendarService) SetMemberColor(ctx context.Context, actorID, calendarID, memberUserID, color string) (*domain.CalendarMembership, error) {
	if actorID == memberUserID {
		if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageColors); err != nil {
			return nil, err
		}
	}

	membership, err := s.findTargetMembership(ctx, memberUserID, calendarID)
	if err != nil {
		return nil, err
	}
	if membership.Color == color {
		return membership, nil
	}

	taken, err := s.calendarRepo.ColorTaken(ctx, calendarID, color)
	if err != nil {
		return nil, fmt.Errorf("failed to check color availability: %w", err)
	}
	if taken {
		return nil, apperrors.NewValidationFailedError("color already taken")
	}

	membership.Color = color
	if err := s.calendarRepo.UpdateMembership(ctx, *membership); err != nil {
		s.LogError(ctx, err, "Failed to update member color", slog.String("member_user_id", memberUserID))
		return nil, fmt.Errorf("failed to set member color: %w", err)
	}
	return membership, nil
}

// SetMemberAdmin promotes or demotes a member. Demotion clears nothing else;
// the member keeps role and overrides.
func (s *CalendarService) SetMemberAdmin(ctx context.Context, actorID, calendarID, memberUserID string, isAdmin bool) (*domain.CalendarMembership, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermPromoteDemoteAdmins); err != nil {
		return nil, err
	}
	membership, err := s.findTargetMembership(ctx, memberUserID, calendarID)
	if err != nil {
		return nil, err
	}
	if membership.IsAdmin == isAdmin {
		return membership, nil
	}

	membership.IsAdmin = isAdmin
	if err := s.calendarRepo.UpdateMembership(ctx, *membership); err != nil {
		s.LogError(ctx, err, "Failed to update admin flag", slog.String("member_user_id", memberUserID))
		return nil, fmt.Errorf("failed to set admin flag: %w", err)
	}
	s.LogInfo(ctx, "Member admin flag changed",
		slog.String("calendar_id", calendarID),
		slog.String("member_user_id", memberUserID),
		slog.Bool("is_admin", isAdmin))
	return membership, nil
}

// SetMemberPermissions persists the selected set against the member's role:
// custom holds what the role lacks, excluded holds what the role grants but the
// panel deselected. Selecting every known code promotes the member to admin;
// anything less on a current admin demotes them.
func (s *CalendarService) SetMemberPermissions(ctx context.Context, actorID, calendarID, memberUserID string, selected []domain.PermissionCode) (*domain.CalendarMembership, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermAssignRoles); err != nil {
		return nil, err
	}
	for _, code := range selected {
		if !domain.IsKnownPermission(code) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown permission %q", code))
		}
	}

	membership, err := s.findTargetMembership(ctx, memberUserID, calendarID)
	if err != nil {
		return nil, err
	}
	role, err := s.resolveRole(ctx, membership)
	if err != nil {
		return nil, err
	}

	rolePerms := domain.PermissionSet{}
	if role != nil {
		rolePerms = domain.NewPermissionSet(role.Permissions...)
	}
	selectedSet := domain.NewPermissionSet(selected...)

	membership.CustomPermissions = selectedSet.Difference(rolePerms).Codes()
	membership.ExcludedPermissions = rolePerms.Difference(selectedSet).Codes()
	membership.IsAdmin = selectedSet.IsComplete()

	if err := s.calendarRepo.UpdateMembership(ctx, *membership); err != nil {
		s.LogError(ctx, err, "Failed to update member permissions", slog.String("member_user_id", memberUserID))
		return nil, fmt.Errorf("failed to set member permissions: %w", err)
	}

	s.LogInfo(ctx, "Member permissions updated",
		slog.String("calendar_id", calendarID),
		slog.String("member_user_id", memberUserID),
		slog.Int("selected_count", len(selectedSet)),
		slog.Bool("is_admin", membership.IsAdmin))
	return membership, nil
}

func (s *CalendarService) findTargetMembership(ctx context.Context, memberUserID, calendarID string) (*domain.CalendarMembership, error) {
	membership, err := s.calendarRepo.FindMembership(ctx, memberUserID, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("member not found in this calendar")
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return membership, nil
}

// ListRoles retrieves the calendar's roles.
func (s *CalendarService) ListRoles(ctx context.Context, actorID, calendarID string) ([]domain.CalendarRole, error) {
	if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	roles, err := s.calendarRepo.ListRolesByCalendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// CreateRole adds a role with a per-calendar case-insensitively unique name.
func (s *CalendarService) CreateRole(ctx context.Context, actorID, calendarID, name string, permissions []domain.PermissionCode) (*domain.CalendarRole, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageRoles); err != nil {
		return nil, err
	}
	name = capitalizeRoleName(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("role name is required")
	}
	for _, code := range permissions {
		if !domain.IsKnownPermission(code) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown permission %q", code))
		}
	}
	if err := s.ensureRoleNameFree(ctx, calendarID, name); err != nil {
		return nil, err
	}

	if permissions == nil {
		permissions = []domain.PermissionCode{}
	}
	role := domain.CalendarRole{
		RoleID:      uuid.NewString(),
		CalendarID:  calendarID,
		Name:        name,
		Permissions: permissions,
	}
	if err := s.calendarRepo.SaveRole(ctx, role); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError(fmt.Sprintf("role %q already exists", name))
		}
		s.LogError(ctx, err, "Failed to save role", slog.String("role_name", name))
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &role, nil
}

// RenameRole renames a role, keeping names unique within the calendar.
func (s *CalendarService) RenameRole(ctx context.Context, actorID, calendarID, roleID, name string) (*domain.CalendarRole, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageRoles); err != nil {
		return nil, err
	}
	role, err := s.findCalendarRole(ctx, calendarID, roleID)
	if err != nil {
		return nil, err
	}

	name = capitalizeRoleName(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("role name is required")
	}
	if strings.EqualFold(role.Name, name) {
		role.Name = name
	} else {
		if err := s.ensureRoleNameFree(ctx, calendarID, name); err != nil {
			return nil, err
		}
		role.Name = name
	}

	if err := s.calendarRepo.UpdateRole(ctx, *role); err != nil {
		s.LogError(ctx, err, "Failed to rename role", slog.String("role_id", roleID))
		return nil, fmt.Errorf("failed to rename role: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role no membership references. Referenced roles are
// refused so members never silently lose their title.
func (s *CalendarService) DeleteRole(ctx context.Context, actorID, calendarID, roleID string) error {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageRoles); err != nil {
		return err
	}
	role, err := s.findCalendarRole(ctx, calendarID, roleID)
	if err != nil {
		return err
	}

	count, err := s.calendarRepo.CountMembershipsByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to count role references: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("role %q is assigned to %d member(s)", role.Name, count))
	}

	if err := s.calendarRepo.DeleteRole(ctx, roleID); err != nil {
		s.LogError(ctx, err, "Failed to delete role", slog.String("role_id", roleID))
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// SetRolePermissions replaces a role's permission set wholesale. Memberships are
// untouched; their effective permissions shift on next read.
func (s *CalendarService) SetRolePermissions(ctx context.Context, actorID, calendarID, roleID string, codes []domain.PermissionCode) (*domain.CalendarRole, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageRoles); err != nil {
		return nil, err
	}
	role, err := s.findCalendarRole(ctx, calendarID, roleID)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if !domain.IsKnownPermission(code) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown permission %q", code))
		}
	}
	if codes == nil {
		codes = []domain.PermissionCode{}
	}

	if err := s.calendarRepo.ReplaceRolePermissions(ctx, roleID, codes); err != nil {
		s.LogError(ctx, err, "Failed to replace role permissions", slog.String("role_id", roleID))
		return nil, fmt.Errorf("failed to set role permissions: %w", err)
	}
	role.Permissions = codes
	return role, nil
}

func (s *CalendarService) findCalendarRole(ctx context.Context, calendarID, roleID string) (*domain.CalendarRole, error) {
	role, err := s.calendarRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("role not found")
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	if role.CalendarID != calendarID {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return role, nil
}

func (s *CalendarService) ensureRoleNameFree(ctx context.Context, calendarID, name string) error {
	_, err := s.calendarRepo.FindRoleByName(ctx, calendarID, name)
	if err == nil {
		return apperrors.NewDuplicateError(fmt.Sprintf("role %q already exists", name))
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check role name: %w", err)
	}
	return nil
}

// ListHolidays retrieves the calendar's holidays.
func (s *CalendarService) ListHolidays(ctx context.Context, actorID, calendarID string) ([]domain.Holiday, error) {
	if _, err := s.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	holidays, err := s.calendarRepo.ListHolidaysByCalendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

// AddHoliday marks a holiday on the calendar.
func (s *CalendarService) AddHoliday(ctx context.Context, actorID, calendarID string, req dto.CreateHolidayRequest) (*domain.Holiday, error) {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageHolidays); err != nil {
		return nil, err
	}
	now := time.Now()
	holiday := domain.Holiday{
		HolidayID:  uuid.NewString(),
		CalendarID: calendarID,
		Date:       req.Date,
		Label:      req.Label,
		Note:       req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.calendarRepo.SaveHoliday(ctx, holiday); err != nil {
		s.LogError(ctx, err, "Failed to save holiday", slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to add holiday: %w", err)
	}
	return &holiday, nil
}

// RemoveHoliday deletes a holiday.
func (s *CalendarService) RemoveHoliday(ctx context.Context, actorID, calendarID, holidayID string) error {
	if _, err := s.AuthorizeCalendarAction(ctx, actorID, calendarID, domain.PermManageHolidays); err != nil {
		return err
	}
	if err := s.calendarRepo.DeleteHoliday(ctx, holidayID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("holiday not found")
		}
		s.LogError(ctx, err, "Failed to delete holiday", slog.String("holiday_id", holidayID))
		return fmt.Errorf("failed to remove holiday: %w", err)
	}
	return nil
}

// capitalizeRoleName normalizes a role name: trimmed, first rune upper, rest
// lower, so "bartender" and "Bartender" collide.
func capitalizeRoleName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}
