package admission

import (
	"context"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// Controller arbitrates job capacity. Every slot movement goes through the
// store's conditional updates, so two racing requests can never both take the
// last slot. The controller adds denial classification on top: when the store
// says no row matched, it re-reads the counters to report which limit was hit.
type Controller struct {
	store CounterStore
}

func NewController(store CounterStore) *Controller {
	return &Controller{store: store}
}

// Reserve takes one application slot on the job. A nil return means the slot
// is held; callers that fail their follow-up write must call Release.
func (c *Controller) Reserve(ctx context.Context, jobID kernel.JobID) error {
	ok, err := c.store.ReserveSlot(ctx, jobID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return c.classifyReserveDenial(ctx, jobID)
}

// Release returns a previously reserved application slot. Used both for
// application removal and as the compensating action when a write after
// Reserve fails.
func (c *Controller) Release(ctx context.Context, jobID kernel.JobID) error {
	return c.store.ReleaseSlot(ctx, jobID)
}

// TransferToApproved takes one approved slot on the job. The application
// slot stays held.
func (c *Controller) TransferToApproved(ctx context.Context, jobID kernel.JobID) error {
	ok, err := c.store.TransferToApproved(ctx, jobID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	snap, err := c.store.Counters(ctx, jobID)
	if err != nil {
		if e, ok := err.(*errx.Error); ok {
			return e
		}
		logx.Warnf("admission: denial classification read failed for job %s: %v", jobID, err)
		return ErrApprovedFull().WithDetail("job_id", jobID.String())
	}
	if snap.IsExpired(time.Now()) {
		return ErrJobExpired().WithDetail("job_id", jobID.String())
	}
	return ErrApprovedFull().WithDetail("job_id", jobID.String())
}

// TransferFromApproved returns a previously taken approved slot.
func (c *Controller) TransferFromApproved(ctx context.Context, jobID kernel.JobID) error {
	return c.store.TransferFromApproved(ctx, jobID)
}

// classifyReserveDenial explains a failed reservation. The counters are read
// after the fact, so under contention the reported reason is best effort; the
// denial itself is always correct.
func (c *Controller) classifyReserveDenial(ctx context.Context, jobID kernel.JobID) error {
	snap, err := c.store.Counters(ctx, jobID)
	if err != nil {
		// A typed error from the read, job gone for example, is the real reason.
		if e, ok := err.(*errx.Error); ok {
			return e
		}
		logx.Warnf("admission: denial classification read failed for job %s: %v", jobID, err)
		return ErrReservationDenied().WithDetail("job_id", jobID.String())
	}

	switch {
	case snap.IsExpired(time.Now()):
		return ErrJobExpired().WithDetail("job_id", jobID.String())
	case snap.ApplicationsFull():
		return ErrApplicationsFull().WithDetail("job_id", jobID.String())
	case snap.ApprovedFull():
		return ErrApprovedFull().WithDetail("job_id", jobID.String())
	default:
		return ErrReservationDenied().WithDetail("job_id", jobID.String())
	}
}
