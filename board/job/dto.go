package job

import (
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title           kernel.JobTitle       `json:"title" validate:"required"`
	Description     kernel.JobDescription `json:"description" validate:"required"`
	Location        string                `json:"location,omitempty"`
	MaxApplications int                   `json:"max_applications,omitempty"`
	MaxApproved     int                   `json:"max_approved,omitempty"`
	ExpiresAt       *time.Time            `json:"expires_at,omitempty"`
}

// UpdateJobRequest - DTO for updating an existing job
type UpdateJobRequest struct {
	Title           *kernel.JobTitle       `json:"title,omitempty"`
	Description     *kernel.JobDescription `json:"description,omitempty"`
	Location        *string                `json:"location,omitempty"`
	MaxApplications *int                   `json:"max_applications,omitempty"`
	MaxApproved     *int                   `json:"max_approved,omitempty"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty"`
	// ClearExpiry drops the expiry back to never-expires. Wins over ExpiresAt.
	ClearExpiry bool `json:"clear_expiry,omitempty"`
}

// ListJobsRequest - DTO for listing jobs
type ListJobsRequest struct {
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job data
type JobResponse struct {
	ID               kernel.JobID          `json:"id"`
	CompanyID        kernel.CompanyID      `json:"company_id"`
	Title            kernel.JobTitle       `json:"title"`
	Slug             kernel.JobSlug        `json:"slug"`
	Description      kernel.JobDescription `json:"description"`
	Location         string                `json:"location"`
	Status           JobStatus             `json:"status"`
	MaxApplications  int                   `json:"max_applications"`
	MaxApproved      int                   `json:"max_approved"`
	ApplicationCount int                   `json:"application_count"`
	ApprovedCount    int                   `json:"approved_count"`
	Accepting        bool                  `json:"accepting"`
	ExpiresAt        *time.Time            `json:"expires_at,omitempty"`
	PublishedAt      *time.Time            `json:"published_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ToResponse converts a job entity into its response DTO
func ToResponse(j *Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		CompanyID:        j.CompanyID,
		Title:            j.Title,
		Slug:             j.Slug,
		Description:      j.Description,
		Location:         j.Location,
		Status:           j.Status,
		MaxApplications:  j.MaxApplications,
		MaxApproved:      j.MaxApproved,
		ApplicationCount: j.ApplicationCount,
		ApprovedCount:    j.ApprovedCount,
		Accepting:        j.AcceptingApplications(time.Now()),
		ExpiresAt:        j.ExpiresAt,
		PublishedAt:      j.PublishedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}
