package dispatchapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Handlers provides the operator surface over dead letters. Reconciliation is
// out-of-band: nothing here sits on a request path of the board itself.
type Handlers struct {
	dispatcher *dispatchsrv.Dispatcher
}

// NewHandlers creates a new dispatch handlers instance
func NewHandlers(dispatcher *dispatchsrv.Dispatcher) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
	}
}

// ListDeadLetters retrieves dead-lettered tasks, newest first
// GET /api/dispatch/dead-letters
func (h *Handlers) ListDeadLetters(c *fiber.Ctx) error {
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()

	letters, err := h.dispatcher.ListDeadLetters(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(letters)
}

// ReplayDeadLetter re-enqueues a dead-lettered task with a fresh attempt budget
// POST /api/dispatch/dead-letters/:id/replay
func (h *Handlers) ReplayDeadLetter(c *fiber.Ctx) error {
	id := kernel.TaskID(c.Params("id"))
	if id == "" {
		return dispatch.ErrDeadLetterMissing().WithDetail("id", "missing or empty")
	}

	if err := h.dispatcher.ReplayDeadLetter(c.Context(), id); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Dead letter requeued",
		"id":      id,
	})
}

// RegisterRoutes registers all dispatch routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/dispatch")

	api.Get("/dead-letters",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeDispatchRead),
		handlers.ListDeadLetters,
	)

	api.Post("/dead-letters/:id/replay",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeDispatchRead),
		handlers.ReplayDeadLetter,
	)
}
