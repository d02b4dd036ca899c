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

// swapHandler handles HTTP requests for shift swap requests.
type swapHandler struct {
	swapService     portssvc.SwapSvcFacade
	scheduleService portssvc.ScheduleSvcFacade
	calendarService portssvc.CalendarSvcFacade
}

func newSwapHandler(sw portssvc.SwapSvcFacade, ss portssvc.ScheduleSvcFacade, cs portssvc.CalendarSvcFacade) *swapHandler {
	return &swapHandler{
		swapService:     sw,
		scheduleService: ss,
		calendarService: cs,
	}
}

// registerSwapRoutes registers swap workflow routes.
func registerSwapRoutes(rg *gin.RouterGroup, swapService portssvc.SwapSvcFacade, scheduleService portssvc.ScheduleSvcFacade, calendarService portssvc.CalendarSvcFacade) {
	h := newSwapHandler(swapService, scheduleService, calendarService)

	swaps := rg.Group("/swaps")
	{
		swaps.POST("", h.proposeSwap)
		swaps.GET("", h.listMySwaps)
		swaps.POST("/:swap_id/accept", h.acceptSwap)
		swaps.POST("/:swap_id/reject", h.rejectSwap)
		swaps.POST("/:swap_id/cancel", h.cancelSwap)
	}

	rg.GET("/calendars/:calendar_id/swaps/pending", h.listPendingSwaps)
}

// toSwapResponse resolves the owning calendar so policy-derived fields are filled.
func (h *swapHandler) toSwapResponse(c *gin.Context, actorID string, request *domain.ShiftSwapRequest) (dto.SwapResponse, error) {
	_, calendar, err := h.scheduleService.GetShift(c.Request.Context(), actorID, request.RequestingShiftID)
	if err != nil {
		return dto.SwapResponse{}, err
	}
	return dto.ToSwapResponse(request, calendar), nil
}

// proposeSwap godoc
// @Summary Propose a swap
// @Description Proposes exchanging the actor's shift with a target shift in the
// @Description same calendar.
// @Tags swaps
// @Accept json
// @Produce json
// @Param swap body dto.ProposeSwapRequest true "Shift pair"
// @Success 201 {object} dto.SwapResponse
// @Failure 409 {object} map[string]string "Active request already exists"
// @Security BearerAuth
// @Router /swaps [post]
func (h *swapHandler) proposeSwap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ProposeSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProposeSwap", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.swapService.ProposeSwap(c.Request.Context(), actorID, req.RequestingShiftID, req.TargetShiftID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.toSwapResponse(c, actorID, request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// acceptSwap godoc
// @Summary Accept a swap
// @Description Advances the request as the target employee or an approver.
// @Description Depending on calendar policy this records target approval or
// @Description finalizes the exchange. Accepting an already finalized request is
// @Description a no-op that reports the final state.
// @Tags swaps
// @Produce json
// @Param swap_id path string true "Swap request ID"
// @Success 200 {object} dto.SwapAcceptResponse
// @Failure 409 {object} map[string]string "Illegal in current state"
// @Security BearerAuth
// @Router /swaps/{swap_id}/accept [post]
func (h *swapHandler) acceptSwap(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.swapService.AcceptSwap(c.Request.Context(), actorID, c.Param("swap_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.toSwapResponse(c, actorID, &result.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "swap finalized"
	switch {
	case result.AlreadyFinalized:
		message = "swap was already finalized"
	case result.PendingAdminApproval:
		message = "swap accepted, awaiting admin approval"
	}

	c.JSON(http.StatusOK, dto.SwapAcceptResponse{
		Swap:                 resp,
		Finalized:            result.Finalized,
		PendingAdminApproval: result.PendingAdminApproval,
		AlreadyFinalized:     result.AlreadyFinalized,
		Message:              message,
	})
}

// rejectSwap godoc
// @Summary Reject a swap
// @Description Terminates an active request without transferring ownership.
// @Tags swaps
// @Param swap_id path string true "Swap request ID"
// @Success 204 "Rejected"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /swaps/{swap_id}/reject [post]
func (h *swapHandler) rejectSwap(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.swapService.RejectSwap(c.Request.Context(), actorID, c.Param("swap_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelSwap godoc
// @Summary Cancel a swap
// @Description Lets the original requester withdraw a still-active request.
// @Tags swaps
// @Param swap_id path string true "Swap request ID"
// @Success 204 "Canceled"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /swaps/{swap_id}/cancel [post]
func (h *swapHandler) cancelSwap(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.swapService.CancelSwap(c.Request.Context(), actorID, c.Param("swap_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listMySwaps godoc
// @Summary List own swap requests
// @Description Retrieves active requests involving the actor's shifts.
// @Tags swaps
// @Produce json
// @Success 200 {object} dto.ListSwapsResponse
// @Security BearerAuth
// @Router /swaps [get]
func (h *swapHandler) listMySwaps(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.swapService.ListSwapsForUser(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.SwapResponse, 0, len(requests))
	for i := range requests {
		resp, err := h.toSwapResponse(c, actorID, &requests[i])
		if err != nil {
			respondError(c, err)
			return
		}
		list = append(list, resp)
	}
	c.JSON(http.StatusOK, dto.ListSwapsResponse{Swaps: list})
}

// listPendingSwaps godoc
// @Summary List swaps awaiting admin approval
// @Tags swaps
// @Produce json
// @Param calendar_id path string true "Calendar ID"
// @Success 200 {object} dto.ListSwapsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /calendars/{calendar_id}/swaps/pending [get]
func (h *swapHandler) listPendingSwaps(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	calendarID := c.Param("calendar_id")

	requests, err := h.swapService.ListPendingAdminSwaps(c.Request.Context(), actorID, calendarID)
	if err != nil {
		respondError(c, err)
		return
	}

	calendar, err := h.calendarService.GetCalendar(c.Request.Context(), actorID, calendarID)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.SwapResponse, 0, len(requests))
	for i := range requests {
		list = append(list, dto.ToSwapResponse(&requests[i], calendar))
	}
	c.JSON(http.StatusOK, dto.ListSwapsResponse{Swaps: list})
}
