package handlers

import (
	"net/http"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications, requireAuth)
	g.GET("/notifications/unread-count", h.GetUnreadCount, requireAuth)
}

// GetNotifications returns the newest notifications and marks them read
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}
	notifications, err := h.notifications.List(c.Request().Context(), username)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Request().Context(), username)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, models.UnreadCount{UnreadCount: count})
}
