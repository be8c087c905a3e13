package admission

import (
	"context"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// CounterSnapshot is a point-in-time read of a job's capacity counters, used
// to classify why a conditional update matched no row. It is advisory only:
// admission decisions are never made from a snapshot.
type CounterSnapshot struct {
	ApplicationCount int
	ApprovedCount    int
	MaxApplications  int
	MaxApproved      int
	ExpiresAt        *time.Time
}

// IsExpired reports whether the job's application window has closed.
func (s *CounterSnapshot) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// ApplicationsFull reports whether the total application cap is reached.
// A zero cap means unlimited.
func (s *CounterSnapshot) ApplicationsFull() bool {
	return s.MaxApplications > 0 && s.ApplicationCount >= s.MaxApplications
}

// ApprovedFull reports whether the approved cap is reached. A zero cap means
// unlimited.
func (s *CounterSnapshot) ApprovedFull() bool {
	return s.MaxApproved > 0 && s.ApprovedCount >= s.MaxApproved
}

// CounterStore is the storage contract for capacity counters. The conditional
// operations must be atomic: the guard and the increment happen in one
// statement, and the bool result says whether a row matched. Implementations
// must never read counters and then write them in separate steps.
type CounterStore interface {
	// ReserveSlot atomically increments the application count if the job is
	// open: not expired, application cap not reached, approved cap not
	// reached. Returns false when no slot was taken.
	ReserveSlot(ctx context.Context, jobID kernel.JobID) (bool, error)

	// ReleaseSlot decrements the application count, never below zero.
	ReleaseSlot(ctx context.Context, jobID kernel.JobID) error

	// TransferToApproved atomically increments the approved count if the
	// approved cap leaves room. Returns false when the cap is reached.
	TransferToApproved(ctx context.Context, jobID kernel.JobID) (bool, error)

	// TransferFromApproved decrements the approved count, never below zero.
	TransferFromApproved(ctx context.Context, jobID kernel.JobID) error

	// Counters reads the current counter values for denial classification.
	Counters(ctx context.Context, jobID kernel.JobID) (*CounterSnapshot, error)
}
