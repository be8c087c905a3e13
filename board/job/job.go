package job

import (
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// JobStatus represents the status of a job posting
type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"     // Created but not published
	JobStatusPublished JobStatus = "PUBLISHED" // Visible and accepting applications
	JobStatusClosed    JobStatus = "CLOSED"    // No longer accepting applications
	JobStatusArchived  JobStatus = "ARCHIVED"  // Hidden from discovery
)

type Job struct {
	ID          kernel.JobID          `db:"id" json:"id"`
	CompanyID   kernel.CompanyID      `db:"company_id" json:"company_id"`
	Title       kernel.JobTitle       `db:"title" json:"title"`
	Slug        kernel.JobSlug        `db:"slug" json:"slug"`
	Description kernel.JobDescription `db:"description" json:"description"`
	Location    string                `db:"location" json:"location"`
	Status      JobStatus             `db:"status" json:"status"`

	// Capacity caps. Zero means unlimited.
	MaxApplications int `db:"max_applications" json:"max_applications"`
	MaxApproved     int `db:"max_approved" json:"max_approved"`

	// Live counters, owned by the counter store. Values read here are a
	// snapshot and must not be used to make admission decisions.
	ApplicationCount int `db:"application_count" json:"application_count"`
	ApprovedCount    int `db:"approved_count" json:"approved_count"`

	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	ArchivedAt  *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsPublished checks if the job is currently published
func (j *Job) IsPublished() bool {
	return j.Status == JobStatusPublished
}

// IsArchived checks if the job is archived
func (j *Job) IsArchived() bool {
	return j.Status == JobStatusArchived
}

// IsExpired checks if the application window has closed
func (j *Job) IsExpired(now time.Time) bool {
	return j.ExpiresAt != nil && !j.ExpiresAt.After(now)
}

// IsOwnedBy checks if the job belongs to the given company
func (j *Job) IsOwnedBy(companyID kernel.CompanyID) bool {
	return j.CompanyID == companyID
}

// CanBePublished checks if a job can be published
func (j *Job) CanBePublished() bool {
	return j.Status == JobStatusDraft || j.Status == JobStatusClosed
}

// AcceptingApplications is the advisory visibility check used on the read
// side. Authoritative admission happens in the counter store.
func (j *Job) AcceptingApplications(now time.Time) bool {
	if !j.IsPublished() || j.IsExpired(now) {
		return false
	}
	if j.MaxApplications > 0 && j.ApplicationCount >= j.MaxApplications {
		return false
	}
	if j.MaxApproved > 0 && j.ApprovedCount >= j.MaxApproved {
		return false
	}
	return true
}

// Publish marks the job as published
func (j *Job) Publish() error {
	if !j.CanBePublished() {
		return ErrCannotPublish().WithDetail("current_status", j.Status)
	}

	now := time.Now()
	j.Status = JobStatusPublished
	j.PublishedAt = &now
	j.UpdatedAt = now
	return nil
}

// Close marks the job as closed
func (j *Job) Close() {
	j.Status = JobStatusClosed
	j.UpdatedAt = time.Now()
}

// Archive marks the job as archived
func (j *Job) Archive() error {
	if j.IsArchived() {
		return ErrJobAlreadyArchived()
	}

	now := time.Now()
	j.Status = JobStatusArchived
	j.ArchivedAt = &now
	j.UpdatedAt = now
	return nil
}

// UpdateDetails updates mutable job fields
func (j *Job) UpdateDetails(title kernel.JobTitle, description kernel.JobDescription, location string) {
	if title != "" {
		j.Title = title
	}
	if description != "" {
		j.Description = description
	}
	if location != "" {
		j.Location = location
	}
	j.UpdatedAt = time.Now()
}

// UpdateCaps changes the capacity limits. Lowering a cap below the current
// counter is allowed: existing applications stay, new admissions are denied.
func (j *Job) UpdateCaps(maxApplications, maxApproved int) error {
	if maxApplications < 0 || maxApproved < 0 {
		return ErrInvalidCaps().WithDetails(map[string]any{
			"max_applications": maxApplications,
			"max_approved":     maxApproved,
		})
	}

	j.MaxApplications = maxApplications
	j.MaxApproved = maxApproved
	j.UpdatedAt = time.Now()
	return nil
}
