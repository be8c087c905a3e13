package application

import (
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// ApplyRequest - DTO for submitting an application
type ApplyRequest struct {
	JobID       kernel.JobID `json:"job_id" validate:"required"`
	Email       kernel.Email `json:"email" validate:"required"`
	CoverLetter string       `json:"cover_letter,omitempty"`
	FileName    string       `json:"file_name,omitempty"`
	FileData    []byte       `json:"-"`
}

// ChangeStatusRequest - DTO for a company status decision
type ChangeStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// ApplicationResponse - DTO for returning application data
type ApplicationResponse struct {
	ID              kernel.ApplicationID `json:"id"`
	JobID           kernel.JobID         `json:"job_id"`
	ApplicantID     kernel.UserID        `json:"applicant_id"`
	CoverLetter     string               `json:"cover_letter"`
	HasResume       bool                 `json:"has_resume"`
	Status          ApplicationStatus    `json:"status"`
	StatusChangedAt *time.Time           `json:"status_changed_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Response type alias for paginated applications
type PaginatedApplicationsResponse = kernel.Paginated[ApplicationResponse]

// ToResponse converts an application entity into its response DTO
func ToResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		JobID:           a.JobID,
		ApplicantID:     a.ApplicantID,
		CoverLetter:     a.CoverLetter,
		HasResume:       !a.ResumePath.IsEmpty(),
		Status:          a.Status,
		StatusChangedAt: a.StatusChangedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
