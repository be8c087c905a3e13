package discoveryapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery/discoverysrv"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Handlers provides HTTP handlers for the public read side
type Handlers struct {
	service *discoverysrv.DiscoveryService
}

// NewHandlers creates a new discovery handlers instance
func NewHandlers(service *discoverysrv.DiscoveryService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// SearchJobs searches published jobs
// GET /api/board/jobs
func (h *Handlers) SearchJobs(c *fiber.Ctx) error {
	filters := discovery.SearchFilters{
		Query:      c.Query("q"),
		Location:   c.Query("location"),
		Pagination: parsePaginationOptions(c),
	}

	jobs, err := h.service.Search(c.Context(), filters)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// ListCompanyJobs retrieves a company's published listings
// GET /api/board/companies/:companyId/jobs
func (h *Handlers) ListCompanyJobs(c *fiber.Ctx) error {
	companyID := kernel.CompanyID(c.Params("companyId"))
	if companyID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("company_id", "missing or empty")
	}

	jobs, err := h.service.CompanyJobs(c.Context(), companyID, parsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// GetJobBySlug retrieves one published job's detail view
// GET /api/board/jobs/by-slug/:slug
func (h *Handlers) GetJobBySlug(c *fiber.Ctx) error {
	slug := kernel.JobSlug(c.Params("slug"))
	if slug.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("slug", "missing or empty")
	}

	jobResp, err := h.service.JobBySlug(c.Context(), slug)
	if err != nil {
		return err
	}

	return c.JSON(jobResp)
}

// GetStats retrieves board-wide aggregates
// GET /api/board/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()
}

// RegisterRoutes registers all discovery routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/board")

	api.Get("/jobs",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.SearchJobs,
	)

	api.Get("/jobs/by-slug/:slug",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetJobBySlug,
	)

	api.Get("/companies/:companyId/jobs",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListCompanyJobs,
	)

	api.Get("/stats",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetStats,
	)
}
