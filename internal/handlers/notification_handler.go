package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/middleware"
	"mixtape/internal/services"
)

// NotificationHandler handles HTTP requests for notifications. Every
// route requires authentication.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	notifications := router.Group("/notifications", requireAuth)
	notifications.Get("/", h.HandleList)
	notifications.Get("/unread-count", h.HandleUnreadCount)
	notifications.Post("/mark-all-read", h.HandleMarkAllRead)
	notifications.Delete("/:id", h.HandleDelete)
}

// HandleList pages the viewer's notifications; expired ones are swept
// first.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	notifications, pagination, err := h.notificationService.List(
		middleware.Viewer(c),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 0),
		c.QueryBool("unreadOnly", false),
	)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"notifications": notifications, "pagination": pagination})
}

// HandleUnreadCount returns how many unread notifications the viewer has.
func (h *NotificationHandler) HandleUnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.UnreadCount(middleware.Viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"count": count})
}

// HandleMarkAllRead flags every notification as read.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(middleware.Viewer(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "all notifications marked as read")
}

// HandleDelete removes one of the viewer's notifications.
func (h *NotificationHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.notificationService.Delete(c.Params("id"), middleware.Viewer(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "notification deleted")
}
