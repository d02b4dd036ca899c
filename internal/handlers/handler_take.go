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

// takeHandler handles HTTP requests for shift take and give-away requests.
type takeHandler struct {
	takeService     portssvc.TakeSvcFacade
	scheduleService portssvc.ScheduleSvcFacade
	calendarService portssvc.CalendarSvcFacade
}

func newTakeHandler(ts portssvc.TakeSvcFacade, ss portssvc.ScheduleSvcFacade, cs portssvc.CalendarSvcFacade) *takeHandler {
	return &takeHandler{
		takeService:     ts,
		scheduleService: ss,
		calendarService: cs,
	}
}

// registerTakeRoutes registers take workflow routes.
func registerTakeRoutes(rg *gin.RouterGroup, takeService portssvc.TakeSvcFacade, scheduleService portssvc.ScheduleSvcFacade, calendarService portssvc.CalendarSvcFacade) {
	h := newTakeHandler(takeService, scheduleService, calendarService)

	takes := rg.Group("/takes")
	{
		takes.POST("", h.proposeTake)
		takes.GET("", h.listMyTakes)
		takes.POST("/:take_id/accept", h.acceptTake)
		takes.POST("/:take_id/reject", h.rejectTake)
		takes.POST("/:take_id/cancel", h.cancelTake)
	}

	rg.GET("/calendars/:calendar_id/takes/pending", h.listPendingTakes)
}

// toTakeResponse resolves the shift's current owner and calendar for the DTO.
func (h *takeHandler) toTakeResponse(c *gin.Context, actorID string, request *domain.ShiftTakeRequest) (dto.TakeResponse, error) {
	shift, calendar, err := h.scheduleService.GetShift(c.Request.Context(), actorID, request.ShiftID)
	if err != nil {
		return dto.TakeResponse{}, err
	}
	return dto.ToTakeResponse(request, shift.EmployeeID, calendar), nil
}

// proposeTake godoc
// @Summary Propose a take or give-away
// @Description Proposes reassigning a single shift. Direction "take" claims
// @Description someone else's shift; "give" offers the actor's own shift to the
// @Description named counterparty.
// @Tags takes
// @Accept json
// @Produce json
// @Param take body dto.ProposeTakeRequest true "Shift and direction"
// @Success 201 {object} dto.TakeResponse
// @Failure 409 {object} map[string]string "Active request already exists"
// @Security BearerAuth
// @Router /takes [post]
func (h *takeHandler) proposeTake(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ProposeTakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProposeTake", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.takeService.ProposeTake(c.Request.Context(), actorID, req.ShiftID, req.Direction, req.CounterpartyUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.toTakeResponse(c, actorID, request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// acceptTake godoc
// @Summary Accept a take
// @Description Advances the request as the counterparty or an approver. Depending
// @Description on calendar policy this records approval or reassigns the shift.
// @Description Accepting an already finalized request is a no-op that reports the
// @Description final state.
// @Tags takes
// @Produce json
// @Param take_id path string true "Take request ID"
// @Success 200 {object} dto.TakeAcceptResponse
// @Failure 409 {object} map[string]string "Illegal in current state"
// @Security BearerAuth
// @Router /takes/{take_id}/accept [post]
func (h *takeHandler) acceptTake(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.takeService.AcceptTake(c.Request.Context(), actorID, c.Param("take_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.toTakeResponse(c, actorID, &result.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "take finalized"
	switch {
	case result.AlreadyFinalized:
		message = "take was already finalized"
	case result.PendingAdminApproval:
		message = "take accepted, awaiting admin approval"
	}

	c.JSON(http.StatusOK, dto.TakeAcceptResponse{
		Take:                 resp,
		Finalized:            result.Finalized,
		PendingAdminApproval: result.PendingAdminApproval,
		AlreadyFinalized:     result.AlreadyFinalized,
		Message:              message,
	})
}

// rejectTake godoc
// @Summary Reject a take
// @Description Terminates an active request without reassigning the shift.
// @Tags takes
// @Param take_id path string true "Take request ID"
// @Success 204 "Rejected"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /takes/{take_id}/reject [post]
func (h *takeHandler) rejectTake(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.takeService.RejectTake(c.Request.Context(), actorID, c.Param("take_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelTake godoc
// @Summary Cancel a take
// @Description Lets the original requester withdraw a still-active request.
// @Tags takes
// @Param take_id path string true "Take request ID"
// @Success 204 "Canceled"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /takes/{take_id}/cancel [post]
func (h *takeHandler) cancelTake(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.takeService.CancelTake(c.Request.Context(), actorID, c.Param("take_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listMyTakes godoc
// @Summary List own take requests
// @Description Retrieves active requests the actor is a party to.
// @Tags takes
// @Produce json
// @Success 200 {object} dto.ListTakesResponse
// @Security BearerAuth
// @Router /takes [get]
func (h *takeHandler) listMyTakes(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.takeService.ListTakesForUser(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.TakeResponse, 0, len(requests))
	for i := range requests {
		resp, err := h.toTakeResponse(c, actorID, &requests[i])
		if err != nil {
			respondError(c, err)
			return
		}
		list = append(list, resp)
	}
	c.JSON(http.StatusOK, dto.ListTakesResponse{Takes: list})
}

// listPendingTakes godoc
// @Summary List takes awaiting admin approval
// @Tags takes
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.ListTakesResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/takes/pending [get]
func (h *takeHandler) listPendingTakes(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	calendarID := c.Param("calendar_id")

	requests, err := h.takeService.ListPendingAdminTakes(c.Request.Context(), actorID, calendarID)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.TakeResponse, 0, len(requests))
	for i := range requests {
		resp, err := h.toTakeResponse(c, actorID, &requests[i])
		if err != nil {
			respondError(c, err)
			return
		}
		list = append(list, resp)
	}
	c.JSON(http.StatusOK, dto.ListTakesResponse{Takes: list})
}
