package jobapi

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job/jobsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInsufficientPermissions().WithDetail("parse_error", err.Error())
	}

	newJob, err := h.service.CreateJob(c.Context(), authCtx, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newJob)
}

// GetJobByID retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJobByID(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	jobResp, err := h.service.GetJobByID(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(jobResp)
}

// GetJobBySlug retrieves a job by its URL slug
// GET /api/jobs/by-slug/:slug
func (h *Handlers) GetJobBySlug(c *fiber.Ctx) error {
	slug := kernel.JobSlug(c.Params("slug"))
	if slug == "" {
		return job.ErrJobNotFound().WithDetail("slug", "missing or empty")
	}

	jobResp, err := h.service.GetJobBySlug(c.Context(), slug)
	if err != nil {
		return err
	}

	return c.JSON(jobResp)
}

// ListPublishedJobs retrieves only published/active jobs
// GET /api/jobs/published
func (h *Handlers) ListPublishedJobs(c *fiber.Ctx) error {
	pagination := parsePaginationOptions(c)

	jobs, err := h.service.ListPublishedJobs(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// ListMyJobs retrieves the calling company's jobs
// GET /api/jobs/mine
func (h *Handlers) ListMyJobs(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	pagination := parsePaginationOptions(c)

	jobs, err := h.service.ListCompanyJobs(c.Context(), authCtx, pagination)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// UpdateJob updates an existing job
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInsufficientPermissions().WithDetail("parse_error", err.Error())
	}

	updatedJob, err := h.service.UpdateJob(c.Context(), authCtx, jobID, req)
	if err != nil {
		return err
	}

	return c.JSON(updatedJob)
}

// DeleteJob deletes a job
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteJob(c.Context(), authCtx, jobID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// PublishJob makes a job visible and open for applications
// POST /api/jobs/:id/publish
func (h *Handlers) PublishJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.PublishJob)
}

// CloseJob stops a job from accepting applications
// POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.CloseJob)
}

// ArchiveJob hides a job from discovery
// POST /api/jobs/:id/archive
func (h *Handlers) ArchiveJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.ArchiveJob)
}

func (h *Handlers) transition(c *fiber.Ctx, op func(context.Context, *auth.AuthContext, kernel.JobID) (*job.JobResponse, error)) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	updatedJob, err := op(c.Context(), authCtx, jobID)
	if err != nil {
		return err
	}

	return c.JSON(updatedJob)
}

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/jobs")

	// Read routes
	api.Get("/published",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListPublishedJobs,
	)

	api.Get("/mine",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListMyJobs,
	)

	api.Get("/by-slug/:slug",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetJobBySlug,
	)

	api.Get("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetJobByID,
	)

	// Write routes
	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CreateJob,
	)

	api.Put("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.UpdateJob,
	)

	api.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.DeleteJob,
	)

	api.Post("/:id/publish",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.PublishJob,
	)

	api.Post("/:id/close",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CloseJob,
	)

	api.Post("/:id/archive",
		authMiddleware.Authenticate(),
		authMiddleware.RequireCompany(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.ArchiveJob,
	)
}
