package application

import (
	"slices"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// ApplicationStatus represents the status of an application
type ApplicationStatus string

const (
	ApplicationStatusInitial  ApplicationStatus = "INITIAL"  // Submitted, not yet seen by the company
	ApplicationStatusViewed   ApplicationStatus = "VIEWED"   // Opened by the company
	ApplicationStatusApproved ApplicationStatus = "APPROVED" // Holds an approved slot on the job
	ApplicationStatusRejected ApplicationStatus = "REJECTED" // Turned down
)

type Application struct {
	ID             kernel.ApplicationID `db:"id" json:"id"`
	JobID          kernel.JobID         `db:"job_id" json:"job_id"`
	ApplicantID    kernel.UserID        `db:"applicant_id" json:"applicant_id"`
	ApplicantEmail kernel.Email         `db:"applicant_email" json:"applicant_email"`
	CoverLetter    string               `db:"cover_letter" json:"cover_letter"`
	ResumePath     kernel.BucketURL     `db:"resume_path" json:"resume_path"`
	Status         ApplicationStatus    `db:"status" json:"status"`

	StatusChangedAt *time.Time `db:"status_changed_at" json:"status_changed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// validTransitions is the full transition table. A status maps to the set of
// statuses it may move to; same-to-same is handled separately as a no-op.
// Leaving APPROVED is permitted so a company can undo a mistaken approval,
// which is also what frees the approved slot.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusInitial: {
		ApplicationStatusViewed,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	},
	ApplicationStatusViewed: {
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	},
	ApplicationStatusRejected: {
		ApplicationStatusApproved,
	},
	ApplicationStatusApproved: {
		ApplicationStatusInitial,
		ApplicationStatusViewed,
		ApplicationStatusRejected,
	},
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsApproved checks if the application holds an approved slot
func (a *Application) IsApproved() bool {
	return a.Status == ApplicationStatusApproved
}

// IsOwnedBy checks if the application belongs to the given applicant
func (a *Application) IsOwnedBy(applicantID kernel.UserID) bool {
	return a.ApplicantID == applicantID
}

// CanTransitionTo checks whether the status change is legal. A change to the
// current status is legal and means "no change".
func (a *Application) CanTransitionTo(newStatus ApplicationStatus) bool {
	if newStatus == a.Status {
		return true
	}
	return slices.Contains(validTransitions[a.Status], newStatus)
}

// EntersApproved reports whether the transition takes an approved slot
func (a *Application) EntersApproved(newStatus ApplicationStatus) bool {
	return newStatus == ApplicationStatusApproved && a.Status != ApplicationStatusApproved
}

// LeavesApproved reports whether the transition frees an approved slot
func (a *Application) LeavesApproved(newStatus ApplicationStatus) bool {
	return a.Status == ApplicationStatusApproved && newStatus != ApplicationStatusApproved
}

// Transition applies a legal status change in memory. Persistence and counter
// movement are the service's concern.
func (a *Application) Transition(newStatus ApplicationStatus) error {
	if !a.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", newStatus)
	}
	if newStatus == a.Status {
		return nil
	}

	now := time.Now()
	a.Status = newStatus
	a.StatusChangedAt = &now
	a.UpdatedAt = now
	return nil
}

// ValidStatus reports whether the value is a known application status
func ValidStatus(status ApplicationStatus) bool {
	switch status {
	case ApplicationStatusInitial, ApplicationStatusViewed,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}
