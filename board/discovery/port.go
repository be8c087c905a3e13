package discovery

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Reader is the uncached read side. Only published, unexpired jobs are
// visible through it.
type Reader interface {
	// SearchJobs retrieves published jobs matching the filters
	SearchJobs(ctx context.Context, filters SearchFilters) (*kernel.Paginated[job.Job], error)

	// CompanyJobs retrieves a company's published jobs
	CompanyJobs(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error)

	// JobBySlug retrieves one published job by its URL slug
	JobBySlug(ctx context.Context, slug kernel.JobSlug) (*job.Job, error)

	// BoardStats computes board-wide aggregates
	BoardStats(ctx context.Context) (*BoardStats, error)
}
