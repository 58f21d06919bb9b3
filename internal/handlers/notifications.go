package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/customers/:id/notifications?unread=true
func (h *Handlers) ListNotifications(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.services.Notifications.List(c.Request.Context(), id, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead - PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
