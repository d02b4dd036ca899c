package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// calendarHandler handles HTTP requests for calendars, roles and holidays.
type calendarHandler struct {
	calendarService portssvc.CalendarSvcFacade
}

func newCalendarHandler(cs portssvc.CalendarSvcFacade) *calendarHandler {
	return &calendarHandler{calendarService: cs}
}

// registerCalendarRoutes registers calendar, role and holiday routes. Member
// routes are registered separately under the same calendar group.
func registerCalendarRoutes(rg *gin.RouterGroup, calendarService portssvc.CalendarSvcFacade) {
	h := newCalendarHandler(calendarService)

	calendars := rg.Group("/calendars")
	{
		calendars.POST("", h.createCalendar)
		calendars.GET("", h.listUserCalendars)
		calendars.GET("/lookup/:join_code", h.lookupCalendar)
		calendars.POST("/join", h.joinCalendar)
	}

	calendarSpecific := rg.Group("/calendars/:calendar_id")
	{
		calendarSpecific.GET("", h.getCalendar)
		calendarSpecific.PATCH("", h.updateCalendarSettings)
		calendarSpecific.DELETE("", h.deleteCalendar)

		roles := calendarSpecific.Group("/roles")
		{
			roles.GET("", h.listRoles)
			roles.POST("", h.createRole)
			roles.PATCH("/:role_id", h.renameRole)
			roles.DELETE("/:role_id", h.deleteRole)
			roles.PUT("/:role_id/permissions", h.setRolePermissions)
		}

		holidays := calendarSpecific.Group("/holidays")
		{
			holidays.GET("", h.listHolidays)
			holidays.POST("", h.addHoliday)
			holidays.DELETE("/:holiday_id", h.removeHoliday)
		}
	}
}

// registerPermissionRoutes registers the static permission catalogue route.
func registerPermissionRoutes(rg *gin.RouterGroup) {
	rg.GET("/permissions", listPermissions)
}

// listPermissions godoc
// @Summary List known permissions
// @Description Returns every permission code with its display label.
// @Tags permissions
// @Produce json
// @Success 200 {array} dto.PermissionResponse
// @Security BearerAuth
// @Router /permissions [get]
func listPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToPermissionList())
}

// createCalendar godoc
// @Summary Create a calendar
// @Description Creates a calendar with a fresh join code and the creator as admin.
// @Tags calendars
// @Accept json
// @Produce json
// @Param calendar body dto.CreateCalendarRequest true "Calendar details"
// @Success 201 {object} dto.CalendarResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /calendars [post]
func (h *calendarHandler) createCalendar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCalendar", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	calendar, err := h.calendarService.CreateCalendar(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Calendar created", slog.String("calendar_id", calendar.CalendarID))
	c.JSON(http.StatusCreated, dto.ToCalendarResponse(calendar))
}

// listUserCalendars godoc
// @Summary List own calendars
// @Description Retrieves the calendars the authenticated user belongs to.
// @Tags calendars
// @Produce json
// @Success 200 {object} dto.ListCalendarsResponse
// @Security BearerAuth
// @Router /calendars [get]
func (h *calendarHandler) listUserCalendars(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	calendars, err := h.calendarService.ListUserCalendars(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListCalendarsResponse(calendars))
}

// lookupCalendar godoc
// @Summary Look up a calendar by join code
// @Description Returns the join-screen view of a calendar: name and roles.
// @Tags calendars
// @Produce json
// @Param join_code path string true "Join code"
// @Success 200 {object} dto.CalendarLookupResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /calendars/lookup/{join_code} [get]
func (h *calendarHandler) lookupCalendar(c *gin.Context) {
	joinCode := c.Param("join_code")

	calendar, roles, err := h.calendarService.LookupByJoinCode(c.Request.Context(), joinCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCalendarLookupResponse(calendar, roles))
}

// joinCalendar godoc
// @Summary Join a calendar
// @Description Adds the authenticated user to a calendar by join code.
// @Tags calendars
// @Accept json
// @Produce json
// @Param join body dto.JoinCalendarRequest true "Join details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input or color taken"
// @Security BearerAuth
// @Router /calendars/join [post]
func (h *calendarHandler) joinCalendar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.JoinCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for JoinCalendar", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	membership, err := h.calendarService.JoinByCode(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(membership))
}

// getCalendar godoc
// @Summary Get a calendar
// @Description Retrieves a calendar the authenticated user is a member of.
// @Tags calendars
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.CalendarResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id} [get]
func (h *calendarHandler) getCalendar(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	calendar, err := h.calendarService.GetCalendar(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCalendarResponse(calendar))
}

// updateCalendarSettings godoc
// @Summary Update calendar settings
// @Description Updates the calendar name and policy flags.
// @Tags calendars
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param settings body dto.UpdateCalendarSettingsRequest true "Settings"
// @Success 200 {object} dto.CalendarResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id} [patch]
func (h *calendarHandler) updateCalendarSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateCalendarSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCalendarSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	calendar, err := h.calendarService.UpdateCalendarSettings(c.Request.Context(), actorID, c.Param("calendar_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCalendarResponse(calendar))
}

// deleteCalendar godoc
// @Summary Delete a calendar
// @Description Removes a calendar and everything scoped to it. Admins only.
// @Tags calendars
// @Param calendar_id path string true "Calendar ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id} [delete]
func (h *calendarHandler) deleteCalendar(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.calendarService.DeleteCalendar(c.Request.Context(), actorID, c.Param("calendar_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listRoles godoc
// @Summary List calendar roles
// @Tags roles
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {array} dto.RoleResponse
// @Security BearerAuth
// @Router /calendars/{calendar_id}/roles [get]
func (h *calendarHandler) listRoles(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	roles, err := h.calendarService.ListRoles(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		list[i] = dto.ToRoleResponse(&roles[i])
	}
	c.JSON(http.StatusOK, list)
}

// createRole godoc
// @Summary Create a role
// @Description Adds a role with a per-calendar unique name.
// @Tags roles
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param role body dto.CreateRoleRequest true "Role details"
// @Success 201 {object} dto.RoleResponse
// @Failure 409 {object} map[string]string "Name already in use"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/roles [post]
func (h *calendarHandler) createRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	role, err := h.calendarService.CreateRole(c.Request.Context(), actorID, c.Param("calendar_id"), req.Name, req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

// renameRole godoc
// @Summary Rename a role
// @Tags roles
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param role_id path string true "Role ID"
// @Param role body dto.RenameRoleRequest true "New name"
// @Success 200 {object} dto.RoleResponse
// @Failure 409 {object} map[string]string "Name already in use"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/roles/{role_id} [patch]
func (h *calendarHandler) renameRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RenameRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RenameRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	role, err := h.calendarService.RenameRole(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("role_id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// deleteRole godoc
// @Summary Delete a role
// @Description Removes a role no membership references.
// @Tags roles
// @Param calendar_id path string true "Calendar ID"
// @Param role_id path string true "Role ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Role still referenced"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/roles/{role_id} [delete]
func (h *calendarHandler) deleteRole(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.calendarService.DeleteRole(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("role_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// setRolePermissions godoc
// @Summary Replace a role's permissions
// @Description Replaces the role's permission set. Members holding the role pick
// @Description up the change on their next action.
// @Tags roles
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param role_id path string true "Role ID"
// @Param permissions body dto.SetRolePermissionsRequest true "Permission codes"
// @Success 200 {object} dto.RoleResponse
// @Failure 400 {object} map[string]string "Unknown permission code"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/roles/{role_id}/permissions [put]
func (h *calendarHandler) setRolePermissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRolePermissions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	role, err := h.calendarService.SetRolePermissions(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("role_id"), req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// listHolidays godoc
// @Summary List calendar holidays
// @Tags holidays
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {array} dto.HolidayResponse
// @Security BearerAuth
// @Router /calendars/{calendar_id}/holidays [get]
func (h *calendarHandler) listHolidays(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	holidays, err := h.calendarService.ListHolidays(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.HolidayResponse, len(holidays))
	for i := range holidays {
		list[i] = dto.ToHolidayResponse(&holidays[i])
	}
	c.JSON(http.StatusOK, list)
}

// addHoliday godoc
// @Summary Mark a holiday
// @Tags holidays
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param holiday body dto.CreateHolidayRequest true "Holiday details"
// @Success 201 {object} dto.HolidayResponse
// @Security BearerAuth
// @Router /calendars/{calendar_id}/holidays [post]
func (h *calendarHandler) addHoliday(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddHoliday", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	holiday, err := h.calendarService.AddHoliday(c.Request.Context(), actorID, c.Param("calendar_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToHolidayResponse(holiday))
}

// removeHoliday godoc
// @Summary Remove a holiday
// @Tags holidays
// @Param calendar_id path string true "Calendar ID"
// @Param holiday_id path string true "Holiday ID"
// @Success 204 "Removed"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/holidays/{holiday_id} [delete]
func (h *calendarHandler) removeHoliday(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.calendarService.RemoveHoliday(c.Request.Context(), actorID, c.Param("calendar_id"), c.Param("holiday_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
