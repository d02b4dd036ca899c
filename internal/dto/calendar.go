package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Calendar DTOs ---

// CreateCalendarRequest defines data for creating a new calendar.
type CreateCalendarRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	// CreatorTitle optionally names the role the creator takes; created if new.
	CreatorTitle string `json:"creatorTitle"`
	// Roles optionally lists extra roles to create alongside the default Staff.
	Roles []string `json:"roles"`
	// Color is the creator's display color.
	Color string `json:"color" binding:"required,membercolor"`

	SelfRoleChangeAllowed    bool `json:"selfRoleChangeAllowed"`
	AllowSwapWithoutApproval bool `json:"allowSwapWithoutApproval"`
	RequireTakeApproval      bool `json:"requireTakeApproval"`
}

// UpdateCalendarSettingsRequest defines updatable calendar settings. Pointer
// fields distinguish "unchanged" from an explicit false.
type UpdateCalendarSettingsRequest struct {
	Name                     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	SelfRoleChangeAllowed    *bool   `json:"selfRoleChangeAllowed,omitempty"`
	AllowSwapWithoutApproval *bool   `json:"allowSwapWithoutApproval,omitempty"`
	RequireTakeApproval      *bool   `json:"requireTakeApproval,omitempty"`
}

// JoinCalendarRequest defines data for joining a calendar by code.
type JoinCalendarRequest struct {
	JoinCode string  `json:"joinCode" binding:"required"`
	RoleID   *string `json:"roleID,omitempty"`
	Color    string  `json:"color" binding:"required,membercolor"`
}

// CalendarResponse defines data returned for a calendar.
type CalendarResponse struct {
	CalendarID               string    `json:"calendarID"`
	Name                     string    `json:"name"`
	JoinCode                 string    `json:"joinCode"`
	SelfRoleChangeAllowed    bool      `json:"selfRoleChangeAllowed"`
	AllowSwapWithoutApproval bool      `json:"allowSwapWithoutApproval"`
	RequireTakeApproval      bool      `json:"requireTakeApproval"`
	CreatedAt                time.Time `json:"createdAt"`
	CreatedBy                string    `json:"createdBy"`
}

// ToCalendarResponse converts domain.Calendar to DTO.
func ToCalendarResponse(c *domain.Calendar) CalendarResponse {
	return CalendarResponse{
		CalendarID:               c.CalendarID,
		Name:                     c.Name,
		JoinCode:                 c.JoinCode,
		SelfRoleChangeAllowed:    c.SelfRoleChangeAllowed,
		AllowSwapWithoutApproval: c.AllowSwapWithoutApproval,
		RequireTakeApproval:      c.RequireTakeApproval,
		CreatedAt:                c.CreatedAt,
		CreatedBy:                c.CreatedBy,
	}
}

// ListCalendarsResponse wraps a list of calendars.
type ListCalendarsResponse struct {
	Calendars []CalendarResponse `json:"calendars"`
}

// ToListCalendarsResponse converts a slice of domain.Calendar to DTO.
func ToListCalendarsResponse(cs []domain.Calendar) ListCalendarsResponse {
	list := make([]CalendarResponse, len(cs))
	for i, c := range cs {
		list[i] = ToCalendarResponse(&c)
	}
	return ListCalendarsResponse{Calendars: list}
}

// CalendarLookupResponse is the join-screen view of a calendar: no settings, just
// what a prospective member needs to pick a title.
type CalendarLookupResponse struct {
	CalendarID string         `json:"calendarID"`
	Name       string         `json:"name"`
	Roles      []RoleResponse `json:"roles"`
}

// ToCalendarLookupResponse converts a calendar and its roles to the join view.
func ToCalendarLookupResponse(c *domain.Calendar, roles []domain.CalendarRole) CalendarLookupResponse {
	rs := make([]RoleResponse, len(roles))
	for i, r := range roles {
		rs[i] = ToRoleResponse(&r)
	}
	return CalendarLookupResponse{CalendarID: c.CalendarID, Name: c.Name, Roles: rs}
}

// --- Role DTOs ---

// CreateRoleRequest defines data for creating a calendar role.
type CreateRoleRequest struct {
	Name        string                  `json:"name" binding:"required,max=50"`
	Permissions []domain.PermissionCode `json:"permissions"`
}

// RenameRoleRequest defines data for renaming a role.
type RenameRoleRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// SetRolePermissionsRequest replaces a role's permission set.
type SetRolePermissionsRequest struct {
	Permissions []domain.PermissionCode `json:"permissions" binding:"required"`
}

// RoleResponse defines data returned for a role.
type RoleResponse struct {
	RoleID      string                  `json:"roleID"`
	CalendarID  string                  `json:"calendarID"`
	Name        string                  `json:"name"`
	Permissions []domain.PermissionCode `json:"permissions"`
}

// ToRoleResponse converts domain.CalendarRole to DTO.
func ToRoleResponse(r *domain.CalendarRole) RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []domain.PermissionCode{}
	}
	return RoleResponse{
		RoleID:      r.RoleID,
		CalendarID:  r.CalendarID,
		Name:        r.Name,
		Permissions: perms,
	}
}

// --- Holiday DTOs ---

// CreateHolidayRequest defines data for marking a holiday.
type CreateHolidayRequest struct {
	Date  time.Time `json:"date" binding:"required"`
	Label string    `json:"label" binding:"required,max=100"`
	Note  *string   `json:"note,omitempty"`
}

// HolidayResponse defines data returned for a holiday.
type HolidayResponse struct {
	HolidayID  string    `json:"holidayID"`
	CalendarID string    `json:"calendarID"`
	Date       time.Time `json:"date"`
	Label      string    `json:"label"`
	Note       *string   `json:"note,omitempty"`
}

// ToHolidayResponse converts domain.Holiday to DTO.
func ToHolidayResponse(h *domain.Holiday) HolidayResponse {
	return HolidayResponse{
		HolidayID:  h.HolidayID,
		CalendarID: h.CalendarID,
		Date:       h.Date,
		Label:      h.Label,
		Note:       h.Note,
	}
}
