package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// memberHandler handles HTTP requests for calendar memberships.
type memberHandler struct {
	calendarService portssvc.CalendarSvcFacade
}

func newMemberHandler(cs portssvc.CalendarSvcFacade) *memberHandler {
	return &memberHandler{calendarService: cs}
}

// registerMemberRoutes registers membership routes under a calendar.
func registerMemberRoutes(rg *gin.RouterGroup, calendarService portssvc.CalendarSvcFacade) {
	h := newMemberHandler(calendarService)

	members := rg.Group("/calendars/:calendar_id/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.inviteMember)
		members.DELETE("/:user_id", h.removeMember)
		members.PUT("/:user_id/role", h.setMemberRole)
		members.PUT("/:user_id/color", h.setMemberColor)
		members.PUT("/:user_id/admin", h.setMemberAdmin)
		members.PUT("/:user_id/permissions", h.setMemberPermissions)
	}
}

// listMembers godoc
// @Summary List calendar members
// @Tags members
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.ListMembersResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	members, err := h.calendarService.ListMembers(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// inviteMember godoc
// @Summary Invite a member
// @Description Adds an existing user to the calendar by username. The invited
// @Description user is assigned a free display color and notified.
// @Tags members
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param invite body dto.InviteMemberRequest true "Invitation"
// @Success 201 {object} dto.MemberResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members [post]
func (h *memberHandler) inviteMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for InviteMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.InviteMember(c.Request.Context(), actorID, c.Param("calendar_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(membership))
}

// removeMember godoc
// @Summary Remove a member
// @Description Removes a member (or leaves, when removing oneself). The member's
// @Description shifts in the calendar are deleted with them.
// @Tags members
// @Param calendar_id path string true "Calendar ID"
// @Param user_id path string true "Member user ID"
// @Success 204 "Removed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members/{user_id} [delete]
func (h *memberHandler) removeMember(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.calendarService.RemoveMember(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// setMemberRole godoc
// @Summary Assign a member's role
// @Description Assigns a role to a member. Members may change their own role only
// @Description when the calendar allows it.
// @Tags members
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param user_id path string true "Member user ID"
// @Param role body dto.SetMemberRoleRequest true "Role assignment"
// @Success 200 {object} dto.MemberResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members/{user_id}/role [put]
func (h *memberHandler) setMemberRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetMemberRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.SetMemberRole(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("user_id"), req.RoleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(membership))
}

// setMemberColor godoc
// @Summary Change a member's color
// @Tags members
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param user_id path string true "Member user ID"
// @Param color body dto.SetMemberColorRequest true "New color"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Color already taken"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members/{user_id}/color [put]
func (h *memberHandler) setMemberColor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetMemberColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetMemberColor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.SetMemberColor(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("user_id"), req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(membership))
}

// setMemberAdmin godoc
// @Summary Promote or demote a member
// @Tags members
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param user_id path string true "Member user ID"
// @Param admin body dto.SetMemberAdminRequest true "Admin flag"
// @Success 200 {object} dto.MemberResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members/{user_id}/admin [put]
func (h *memberHandler) setMemberAdmin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetMemberAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetMemberAdmin", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.SetMemberAdmin(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("user_id"), req.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(membership))
}

// setMemberPermissions godoc
// @Summary Set a member's permissions
// @Description Persists the full selected capability set; custom and excluded
// @Description overrides are derived against the member's role. Granting every
// @Description known code promotes the member to admin.
// @Tags members
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param user_id path string true "Member user ID"
// @Param permissions body dto.SetMemberPermissionsRequest true "Selected codes"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Unknown permission code"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/members/{user_id}/permissions [put]
func (h *memberHandler) setMemberPermissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetMemberPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetMemberPermissions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.SetMemberPermissions(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("user_id"), req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(membership))
}
