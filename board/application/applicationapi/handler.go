package applicationapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/board/application"
	"github.com/thaihadefi/Innovation-Project-sub000/board/application/applicationsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// Apply submits an application, optionally with an attached resume
// POST /api/applications
func (h *Handlers) Apply(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	req := application.ApplyRequest{
		JobID:       kernel.JobID(c.FormValue("job_id")),
		Email:       kernel.NewEmail(c.FormValue("email")),
		CoverLetter: c.FormValue("cover_letter"),
	}
	if req.JobID == "" {
		// JSON bodies work too when no file is attached.
		if err := c.BodyParser(&req); err != nil {
			return application.ErrInsufficientPermissions().WithDetail("parse_error", err.Error())
		}
	}

	if file, err := c.FormFile("file"); err == nil {
		content, err := file.Open()
		if err != nil {
			return application.ErrInsufficientPermissions().WithDetail("file_open_error", err.Error())
		}
		defer content.Close()

		data, err := io.ReadAll(content)
		if err != nil {
			return application.ErrInsufficientPermissions().WithDetail("file_read_error", err.Error())
		}

		req.FileName = file.Filename
		req.FileData = data
	}

	app, err := h.service.Apply(c.Context(), authCtx, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// GetApplication retrieves one application
// GET /api/applications/:id
func (h *Handlers) GetApplication(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	id := kernel.ApplicationID(c.Params("id"))
	if id == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	app, err := h.service.GetApplication(c.Context(), authCtx, id)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// ChangeStatus applies a company decision to an application
// PUT /api/applications/:id/status
func (h *Handlers) ChangeStatus(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	id := kernel.ApplicationID(c.Params("id"))
	if id == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	var req application.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidStatus().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.ChangeStatus(c.Context(), authCtx, id, req)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// DeleteApplication withdraws an application
// DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	id := kernel.ApplicationID(c.Params("id"))
	if id == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteApplication(c.Context(), authCtx, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ListMyApplications retrieves the calling applicant's applications
// GET /api/applications/mine
func (h *Handlers) ListMyApplications(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	apps, err := h.service.ListMyApplications(c.Context(), authCtx, parsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// ListJobApplications retrieves a job's applications for its owning company
// GET /api/applications/by-job/:jobId
func (h *Handlers) ListJobApplications(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	jobID := kernel.JobID(c.Params("jobId"))
	if jobID == "" {
		return application.ErrApplicationNotFound().WithDetail("job_id", "missing or empty")
	}

	apps, err := h.service.ListJobApplications(c.Context(), authCtx, jobID, parsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// DownloadResume streams the stored attachment
// GET /api/applications/:id/resume
func (h *Handlers) DownloadResume(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	id := kernel.ApplicationID(c.Params("id"))
	if id == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	reader, err := h.service.DownloadResume(c.Context(), authCtx, id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.SendStream(reader)
}

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()
}

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/applications")

	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsWrite),
		handlers.Apply,
	)

	api.Get("/mine",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListMyApplications,
	)

	api.Get("/by-job/:jobId",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListJobApplications,
	)

	api.Get("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.GetApplication,
	)

	api.Get("/:id/resume",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.DownloadResume,
	)

	api.Put("/:id/status",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.ChangeStatus,
	)

	// Applicants withdraw with applications:write, companies remove with
	// applications:review; the service checks ownership either way.
	api.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireAnyScope(auth.ScopeApplicationsWrite, auth.ScopeApplicationsReview),
		handlers.DeleteApplication,
	)
}
