package notificationapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/board/notification"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification/notificationsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Handlers provides HTTP handlers for notification operations
type Handlers struct {
	service *notificationsrv.NotificationService
}

// NewHandlers creates a new notification handlers instance
func NewHandlers(service *notificationsrv.NotificationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ListNotifications retrieves the caller's notifications
// GET /api/notifications
func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()

	items, err := h.service.ListMyNotifications(c.Context(), authCtx, pagination)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// GetUnreadCount counts the caller's unread notifications
// GET /api/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	count, err := h.service.UnreadCount(c.Context(), authCtx)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"unread": count,
	})
}

// MarkRead acknowledges one notification
// POST /api/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NotificationID(c.Params("id"))
	if id == "" {
		return notification.ErrNotificationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.MarkRead(c.Context(), authCtx, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// MarkAllRead acknowledges every unread notification of the caller
// POST /api/notifications/read-all
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	if err := h.service.MarkAllRead(c.Context(), authCtx); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// RegisterRoutes registers all notification routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/notifications")

	api.Get("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeNotificationsRead),
		handlers.ListNotifications,
	)

	api.Get("/unread-count",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeNotificationsRead),
		handlers.GetUnreadCount,
	)

	api.Post("/:id/read",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeNotificationsRead),
		handlers.MarkRead,
	)

	api.Post("/read-all",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeNotificationsRead),
		handlers.MarkAllRead,
	)
}
