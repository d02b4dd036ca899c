package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Membership DTOs ---

// InviteMemberRequest adds an existing user to a calendar by username. The role
// is optional; the service assigns a free display color.
type InviteMemberRequest struct {
	Username string  `json:"username" binding:"required"`
	RoleID   *string `json:"roleID,omitempty"`
}

// SetMemberRoleRequest assigns a role (nil clears it).
type SetMemberRoleRequest struct {
	RoleID *string `json:"roleID"`
}

// SetMemberColorRequest changes a member's display color.
type SetMemberColorRequest struct {
	Color string `json:"color" binding:"required,membercolor"`
}

// SetMemberAdminRequest promotes or demotes a member.
type SetMemberAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// SetMemberPermissionsRequest carries the full selected capability set for a
// member; the service derives custom and excluded overrides from it.
type SetMemberPermissionsRequest struct {
	Permissions []domain.PermissionCode `json:"permissions" binding:"required"`
}

// MemberResponse defines data returned for a calendar membership.
type MemberResponse struct {
	UserID              string                  `json:"userID"`
	CalendarID          string                  `json:"calendarID"`
	RoleID              *string                 `json:"roleID,omitempty"`
	IsAdmin             bool                    `json:"isAdmin"`
	Color               string                  `json:"color"`
	CustomPermissions   []domain.PermissionCode `json:"customPermissions"`
	ExcludedPermissions []domain.PermissionCode `json:"excludedPermissions"`
	JoinedAt            time.Time               `json:"joinedAt"`
}

// ToMemberResponse converts domain.CalendarMembership to DTO.
func ToMemberResponse(m *domain.CalendarMembership) MemberResponse {
	custom := m.CustomPermissions
	if custom == nil {
		custom = []domain.PermissionCode{}
	}
	excluded := m.ExcludedPermissions
	if excluded == nil {
		excluded = []domain.PermissionCode{}
	}
	return MemberResponse{
		UserID:              m.UserID,
		CalendarID:          m.CalendarID,
		RoleID:              m.RoleID,
		IsAdmin:             m.IsAdmin,
		Color:               m.Color,
		CustomPermissions:   custom,
		ExcludedPermissions: excluded,
		JoinedAt:            m.JoinedAt,
	}
}

// ListMembersResponse wraps a list of memberships.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToListMembersResponse converts a slice of memberships to DTO.
func ToListMembersResponse(ms []domain.CalendarMembership) ListMembersResponse {
	list := make([]MemberResponse, len(ms))
	for i, m := range ms {
		list[i] = ToMemberResponse(&m)
	}
	return ListMembersResponse{Members: list}
}

// PermissionResponse describes one known capability for permission pickers.
type PermissionResponse struct {
	Codename domain.PermissionCode `json:"codename"`
	Label    string                `json:"label"`
}

// ToPermissionList returns every known permission with its label.
func ToPermissionList() []PermissionResponse {
	all := domain.AllPermissions()
	list := make([]PermissionResponse, 0, len(all))
	for _, code := range all {
		label, _ := domain.PermissionLabel(code)
		list = append(list, PermissionResponse{Codename: code, Label: label})
	}
	return list
}
