package handlers

import (
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/notify"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the in-app notification inbox.
type NotificationHandler struct {
	notifier *notify.Dispatcher
}

func NewNotificationHandler(notifier *notify.Dispatcher) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List handles GET /api/notifications, returning the caller's unread inbox.
func (h *NotificationHandler) List(c *gin.Context) {
	actor := auth.FromContext(c)
	notifications, err := h.notifier.ListFor(actor.ID, actor.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := auth.FromContext(c)
	n, err := h.notifier.MarkRead(c.Param("id"), actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
