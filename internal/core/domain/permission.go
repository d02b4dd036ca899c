package domain

// PermissionCode identifies one calendar-scoped capability. The set of codes is
// closed: business logic elsewhere assumes exactly these exist, so they are
// constants rather than user-creatable rows.
type PermissionCode string

const (
	PermManageCalendarSettings PermissionCode = "manage_calendar_settings"
	PermManageRoles            PermissionCode = "manage_roles"
	PermManageColors           PermissionCode = "manage_colors"
	PermManageSchedules        PermissionCode = "create_edit_delete_schedules"
	PermManageShifts           PermissionCode = "create_edit_delete_shifts"
	PermApproveSwapRequests    PermissionCode = "approve_reject_swap_requests"
	PermApproveTakeRequests    PermissionCode = "approve_reject_take_requests"
	PermApproveTimeOff         PermissionCode = "approve_reject_time_off"
	PermManageHolidays         PermissionCode = "manage_holidays"
	PermInviteRemoveMembers    PermissionCode = "invite_remove_members"
	PermAssignRoles            PermissionCode = "assign_roles"
	PermPromoteDemoteAdmins    PermissionCode = "promote_demote_admins"
	PermSendAnnouncements      PermissionCode = "send_announcements"
)

// permissionLabels maps each code to its human-readable label, in seed order.
var permissionLabels = map[PermissionCode]string{
	PermManageCalendarSettings: "Can manage calendar settings (rename calendar, toggle rules)",
	PermManageRoles:            "Can manage roles (create, rename, delete roles)",
	PermManageColors:           "Can change a members color",
	PermManageSchedules:        "Can create/edit/delete schedules",
	PermManageShifts:           "Can create/edit/delete shifts",
	PermApproveSwapRequests:    "Can approve/reject shift swap requests",
	PermApproveTakeRequests:    "Can approve/reject take shift requests",
	PermApproveTimeOff:         "Can approve/reject time off requests",
	PermManageHolidays:         "Can mark holidays or altered work hours",
	PermInviteRemoveMembers:    "Can invite/remove members",
	PermAssignRoles:            "Can assign/change roles for others",
	PermPromoteDemoteAdmins:    "Can promote/demote members to/from admin",
	PermSendAnnouncements:      "Can send announcements/notifications to calendar",
}

// AllPermissions returns every known permission code. Callers own the slice.
func AllPermissions() []PermissionCode {
	all := make([]PermissionCode, 0, len(permissionLabels))
	for code := range permissionLabels {
		all = append(all, code)
	}
	return all
}

// PermissionLabel returns the display label for a code and whether the code is known.
func PermissionLabel(code PermissionCode) (string, bool) {
	label, ok := permissionLabels[code]
	return label, ok
}

// IsKnownPermission reports whether code is one of the seeded capabilities.
func IsKnownPermission(code PermissionCode) bool {
	_, ok := permissionLabels[code]
	return ok
}

// PermissionSet is a set of capability codes with the union/difference operations
// membership resolution is built from.
type PermissionSet map[PermissionCode]struct{}

// NewPermissionSet builds a set from codes, dropping duplicates.
func NewPermissionSet(codes ...PermissionCode) PermissionSet {
	s := make(PermissionSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s PermissionSet) Contains(code PermissionCode) bool {
	_, ok := s[code]
	return ok
}

// Union returns a new set with the members of both s and other.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// Difference returns a new set with the members of s not in other.
func (s PermissionSet) Difference(other PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s))
	for c := range s {
		if _, ok := other[c]; !ok {
			out[c] = struct{}{}
		}
	}
	return out
}

// Codes returns the set as a slice. Order is unspecified.
func (s PermissionSet) Codes() []PermissionCode {
	codes := make([]PermissionCode, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	return codes
}

// IsComplete reports whether the set covers every known permission code.
func (s PermissionSet) IsComplete() bool {
	if len(s) < len(permissionLabels) {
		return false
	}
	for code := range permissionLabels {
		if _, ok := s[code]; !ok {
			return false
		}
	}
	return true
}
