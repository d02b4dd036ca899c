package domain

import "time"

// Calendar is the tenant boundary: it owns roles, memberships, schedules and
// holidays, and carries the policy flags the workflow engines branch on.
type Calendar struct {
	CalendarID string `json:"calendarID"` // Primary Key (UUID)
	Name       string `json:"name"`
	JoinCode   string `json:"joinCode"` // Unique short code members join with
	// SelfRoleChangeAllowed lets members change their own role without assign_roles.
	SelfRoleChangeAllowed bool `json:"selfRoleChangeAllowed"`
	// AllowSwapWithoutApproval finalizes swaps on target acceptance alone.
	AllowSwapWithoutApproval bool `json:"allowSwapWithoutApproval"`
	// RequireTakeApproval demands an admin sign-off after the target accepts a take.
	RequireTakeApproval bool `json:"requireTakeApproval"`
	AuditFields
}

// CalendarRole (a "title") is a calendar-scoped bundle of permissions. Name is
// unique per calendar, case-insensitive. A default "Staff" role always exists.
type CalendarRole struct {
	RoleID      string           `json:"roleID"` // Primary Key (UUID)
	CalendarID  string           `json:"calendarID"`
	Name        string           `json:"name"`
	Permissions []PermissionCode `json:"permissions"`
}

// DefaultRoleName is created on every calendar and cannot be claimed ad hoc.
const DefaultRoleName = "Staff"

// CalendarMembership joins a User to a Calendar with one role plus one override layer.
type CalendarMembership struct {
	UserID     string  `json:"userID"`
	CalendarID string  `json:"calendarID"`
	RoleID     *string `json:"roleID,omitempty"`
	// IsAdmin is the super-grant: it bypasses all permission checks. It is also
	// derived: granting every known code through SetMemberPermissions flips it on.
	IsAdmin bool `json:"isAdmin"`
	// Color is the member's display color, unique within the calendar.
	Color               string           `json:"color"`
	CustomPermissions   []PermissionCode `json:"customPermissions"`   // additive overrides
	ExcludedPermissions []PermissionCode `json:"excludedPermissions"` // subtractive overrides
	JoinedAt            time.Time        `json:"joinedAt"`
}

// EffectivePermissions computes (role.permissions ∪ custom) − excluded. role may be
// nil when the membership has no title; the role set is then empty. The result is
// always computed, never cached, so role permission edits take effect on next read.
func (m *CalendarMembership) EffectivePermissions(role *CalendarRole) PermissionSet {
	rolePerms := PermissionSet{}
	if role != nil {
		rolePerms = NewPermissionSet(role.Permissions...)
	}
	custom := NewPermissionSet(m.CustomPermissions...)
	excluded := NewPermissionSet(m.ExcludedPermissions...)
	return rolePerms.Union(custom).Difference(excluded)
}

// HasPermission reports whether the membership may perform an action gated by code.
// Admins pass every check.
func (m *CalendarMembership) HasPermission(role *CalendarRole, code PermissionCode) bool {
	if m.IsAdmin {
		return true
	}
	return m.EffectivePermissions(role).Contains(code)
}

// Holiday marks a calendar-wide date with a label and optional altered hours note.
type Holiday struct {
	HolidayID  string    `json:"holidayID"` // Primary Key (UUID)
	CalendarID string    `json:"calendarID"`
	Date       time.Time `json:"date"`
	Label      string    `json:"label"`
	Note       *string   `json:"note,omitempty"`
	AuditFields
}
