package application

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type Repository interface {
	// Create creates a new application. Returns AlreadyApplied when the
	// applicant already has one for the job.
	Create(ctx context.Context, app *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// UpdateStatusCAS changes the status only if the stored status still
	// equals expected. Returns false when another request won the race.
	UpdateStatusCAS(ctx context.Context, id kernel.ApplicationID, expected, next ApplicationStatus) (bool, error)

	// Delete deletes an application by ID
	Delete(ctx context.Context, id kernel.ApplicationID) error

	// ListByJob retrieves a job's applications with pagination
	ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// ListAllByJob retrieves every application for a job, used by deletion
	// flows that need the full set
	ListAllByJob(ctx context.Context, jobID kernel.JobID) ([]*Application, error)

	// ListByApplicant retrieves an applicant's applications with pagination
	ListByApplicant(ctx context.Context, applicantID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// ExistsForJobAndApplicant checks whether the applicant already applied
	ExistsForJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicantID kernel.UserID) (bool, error)
}
