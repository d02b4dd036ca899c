package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/nathanmaher41/WorkScheduler/internal/middleware"
)

// notificationHandler handles HTTP requests for the inbox.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(service portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: service}
}

// registerNotificationRoutes registers inbox routes.
func registerNotificationRoutes(rg *gin.RouterGroup, service portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(service)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/read-all", h.markAllRead)
		notifications.POST("/:notification_id/read", h.markRead)
		notifications.DELETE("/:notification_id", h.dismissNotification)
	}
}

// listNotifications godoc
// @Summary List inbox notifications
// @Description Retrieves the actor's notifications newest first with the unread
// @Description count, paginated by an opaque cursor.
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination cursor from a previous page"
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unreadOnly := c.Query("unreadOnly") == "true"
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + raw})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	notifications, next, err := h.notificationService.ListInbox(c.Request.Context(), actorID, unreadOnly, limit, nextToken)
	if err != nil {
		respondError(c, err)
		return
	}

	unread, err := h.notificationService.CountUnread(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(notifications, unread, next))
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param notification_id path string true "Notification ID"
// @Success 204 "Marked read"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /notifications/{notification_id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), actorID, c.Param("notification_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications read
// @Tags notifications
// @Success 204 "Marked read"
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// dismissNotification godoc
// @Summary Dismiss a notification
// @Description Hides a notification from the actor's inbox.
// @Tags notifications
// @Param notification_id path string true "Notification ID"
// @Success 204 "Dismissed"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /notifications/{notification_id} [delete]
func (h *notificationHandler) dismissNotification(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.notificationService.Dismiss(c.Request.Context(), actorID, c.Param("notification_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
