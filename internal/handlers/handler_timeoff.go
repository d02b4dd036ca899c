package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// timeOffHandler handles HTTP requests for time-off requests.
type timeOffHandler struct {
	timeOffService portssvc.TimeOffSvcFacade
}

func newTimeOffHandler(service portssvc.TimeOffSvcFacade) *timeOffHandler {
	return &timeOffHandler{timeOffService: service}
}

// registerTimeOffRoutes registers time-off workflow routes.
func registerTimeOffRoutes(rg *gin.RouterGroup, service portssvc.TimeOffSvcFacade) {
	h := newTimeOffHandler(service)

	calendarTimeOff := rg.Group("/calendars/:calendar_id/timeoff")
	{
		calendarTimeOff.POST("", h.createTimeOff)
		calendarTimeOff.GET("", h.listTimeOff)
		calendarTimeOff.GET("/mine", h.listOwnTimeOff)
	}

	timeOff := rg.Group("/timeoff")
	{
		timeOff.POST("/:request_id/decision", h.decideTimeOff)
		timeOff.DELETE("/:request_id", h.cancelTimeOff)
	}
}

// createTimeOff godoc
// @Summary File a time-off request
// @Description Files a pending request for the acting member over a date range.
// @Tags timeoff
// @Accept json
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param timeoff body dto.CreateTimeOffRequest true "Date range and reason"
// @Success 201 {object} dto.TimeOffResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/timeoff [post]
func (h *timeOffHandler) createTimeOff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTimeOff", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.timeOffService.CreateTimeOff(c.Request.Context(), actorID, c.Param("calendar_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimeOffResponse(request))
}

// listTimeOff godoc
// @Summary List time-off requests for review
// @Description Retrieves requests in a calendar, optionally filtered by status.
// @Description Requires time-off approval permission.
// @Tags timeoff
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Param status query string false "Filter by status" Enums(pending, approved, denied)
// @Success 200 {object} dto.ListTimeOffResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/timeoff [get]
func (h *timeOffHandler) listTimeOff(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var status *domain.TimeOffStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.TimeOffStatus(raw)
		switch s {
		case domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffDenied:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + raw})
			return
		}
	}

	requests, err := h.timeOffService.ListTimeOffForCalendar(c.Request.Context(), actorID, c.Param("calendar_id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTimeOffResponse(requests))
}

// listOwnTimeOff godoc
// @Summary List own time-off requests
// @Tags timeoff
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.ListTimeOffResponse
// @Security BearerAuth
// @Router /calendars/{calendar_id}/timeoff/mine [get]
func (h *timeOffHandler) listOwnTimeOff(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.timeOffService.ListOwnTimeOff(c.Request.Context(), actorID, c.Param("calendar_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTimeOffResponse(requests))
}

// decideTimeOff godoc
// @Summary Decide a time-off request
// @Description Approves or denies a pending request. Denials carry a reason;
// @Description approvals may expose the absence to the rest of the calendar.
// @Tags timeoff
// @Accept json
// @Produce json
// @Param request_id path string true "Time-off request ID"
// @Param decision body dto.TimeOffDecisionRequest true "Decision"
// @Success 200 {object} dto.TimeOffResponse
// @Failure 409 {object} map[string]string "Request already decided"
// @Security BearerAuth
// @Router /timeoff/{request_id}/decision [post]
func (h *timeOffHandler) decideTimeOff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TimeOffDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideTimeOff", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.timeOffService.DecideTimeOff(c.Request.Context(), actorID, c.Param("request_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeOffResponse(request))
}

// cancelTimeOff godoc
// @Summary Cancel a time-off request
// @Description Lets the employee withdraw a still-pending request.
// @Tags timeoff
// @Param request_id path string true "Time-off request ID"
// @Success 204 "Canceled"
// @Failure 409 {object} map[string]string "Request already decided"
// @Security BearerAuth
// @Router /timeoff/{request_id} [delete]
func (h *timeOffHandler) cancelTimeOff(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.timeOffService.CancelTimeOff(c.Request.Context(), actorID, c.Param("request_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
