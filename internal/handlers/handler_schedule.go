package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// scheduleHandler handles HTTP requests for schedules.
type scheduleHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newScheduleHandler(ss portssvc.ScheduleSvcFacade) *scheduleHandler {
	return &scheduleHandler{scheduleService: ss}
}

// registerScheduleRoutes registers schedule routes, nested under calendars for
// creation and listing and top-level for mutations by ID.
func registerScheduleRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newScheduleHandler(scheduleService)

	calendarSchedules := rg.Group("/calendars/:calendar_id/schedules")
	{
		calendarSchedules.POST("", h.createSchedule)
		calendarSchedules.GET("", h.listSchedules)
	}

	schedules := rg.Group("/schedules/:schedule_id")
	{
		schedules.PATCH("", h.updateSchedule)
		schedules.DELETE("", h.deleteSchedule)
	}
}

// createSchedule godoc
// @Summary Create a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param schedule body dto.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/schedules [post]
func (h *scheduleHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), actorID, c.Param("calendar_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToScheduleResponse(schedule))
}

// listSchedules godoc
// @Summary List calendar schedules
// @Tags schedules
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.ListSchedulesResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/schedules [get]
func (h *scheduleHandler) listSchedules(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedules, err := h.scheduleService.ListSchedules(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListSchedulesResponse(schedules))
}

// updateSchedule godoc
// @Summary Update a schedule
// @Description Updates name, dates and the published flag.
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule_id path string true "Schedule ID"
// @Param schedule body dto.UpdateScheduleRequest true "Fields to update"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /schedules/{schedule_id} [patch]
func (h *scheduleHandler) updateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(c.Request.Context(), actorID, c.Param("schedule_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// deleteSchedule godoc
// @Summary Delete a schedule
// @Description Removes a schedule and its shifts.
// @Tags schedules
// @Param schedule_id path string true "Schedule ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /schedules/{schedule_id} [delete]
func (h *scheduleHandler) deleteSchedule(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), actorID, c.Param("schedule_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
