package job

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// Update updates an existing job
	Update(ctx context.Context, job *Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// GetBySlug retrieves a job by its URL slug
	GetBySlug(ctx context.Context, slug kernel.JobSlug) (*Job, error)

	// Delete deletes a job by ID
	Delete(ctx context.Context, id kernel.JobID) error

	// ListByCompany retrieves jobs owned by a company
	ListByCompany(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// ListPublished retrieves published, unexpired jobs
	ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// Exists checks if a job exists by ID
	Exists(ctx context.Context, id kernel.JobID) (bool, error)
}
