package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// shiftHandler handles HTTP requests for shifts.
type shiftHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newShiftHandler(ss portssvc.ScheduleSvcFacade) *shiftHandler {
	return &shiftHandler{scheduleService: ss}
}

// registerShiftRoutes registers shift routes, nested under schedules for
// creation and listing and top-level for mutations by ID.
func registerShiftRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newShiftHandler(scheduleService)

	scheduleShifts := rg.Group("/schedules/:schedule_id/shifts")
	{
		scheduleShifts.POST("", h.createShift)
		scheduleShifts.GET("", h.listShifts)
	}

	shifts := rg.Group("/shifts/:shift_id")
	{
		shifts.GET("", h.getShift)
		shifts.PATCH("", h.updateShift)
		shifts.DELETE("", h.deleteShift)
	}
}

// createShift godoc
// @Summary Create a shift
// @Description Adds a shift. The assigned employee must be a calendar member.
// @Tags shifts
// @Accept json
// @Produce json
// @Param schedule_id path string true "Schedule ID"
// @Param shift body dto.CreateShiftRequest true "Shift details"
// @Success 201 {object} dto.ShiftResponse
// @Failure 400 {object} map[string]string "Assignee not a member"
// @Security BearerAuth
// @Router /schedules/{schedule_id}/shifts [post]
func (h *shiftHandler) createShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	shift, err := h.scheduleService.CreateShift(c.Request.Context(), actorID, c.Param("schedule_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToShiftResponse(shift))
}

// listShifts godoc
// @Summary List schedule shifts
// @Description Retrieves a page of shifts ordered by start time.
// @Tags shifts
// @Produce json
// @Param schedule_id path string true "Schedule ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListShiftsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /schedules/{schedule_id}/shifts [get]
func (h *shiftHandler) listShifts(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	shifts, next, err := h.scheduleService.ListShifts(c.Request.Context(), actorID, c.Param("schedule_id"), limit, nextToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListShiftsResponse(shifts, next))
}

// getShift godoc
// @Summary Get a shift
// @Tags shifts
// @Produce json
// @Param shift_id path string true "Shift ID"
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /shifts/{shift_id} [get]
func (h *shiftHandler) getShift(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shift, _, err := h.scheduleService.GetShift(c.Request.Context(), actorID, c.Param("shift_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShiftResponse(shift))
}

// updateShift godoc
// @Summary Update a shift
// @Description Updates times, position, notes and assignee.
// @Tags shifts
// @Accept json
// @Produce json
// @Param shift_id path string true "Shift ID"
// @Param shift body dto.UpdateShiftRequest true "Fields to update"
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /shifts/{shift_id} [patch]
func (h *shiftHandler) updateShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	shift, err := h.scheduleService.UpdateShift(c.Request.Context(), actorID, c.Param("shift_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShiftResponse(shift))
}

// deleteShift godoc
// @Summary Delete a shift
// @Tags shifts
// @Param shift_id path string true "Shift ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /shifts/{shift_id} [delete]
func (h *shiftHandler) deleteShift(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.scheduleService.DeleteShift(c.Request.Context(), actorID, c.Param("shift_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
