package dispatchsrv

import (
	"context"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// Dispatcher routes dequeued tasks to their handlers and owns the retry
// policy: a failed task goes back to the delayed schedule with exponential
// backoff until its attempts run out, then it lands in the dead-letter store.
type Dispatcher struct {
	queue       dispatch.Queue
	deadLetters dispatch.DeadLetterRepository
	handlers    map[dispatch.TaskKind]dispatch.Handler
	maxAttempts int
	baseBackoff time.Duration
}

func NewDispatcher(
	queue dispatch.Queue,
	deadLetters dispatch.DeadLetterRepository,
	maxAttempts int,
	baseBackoff time.Duration,
) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	if baseBackoff <= 0 {
		baseBackoff = 2 * time.Second
	}
	return &Dispatcher{
		queue:       queue,
		deadLetters: deadLetters,
		handlers:    make(map[dispatch.TaskKind]dispatch.Handler),
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
	}
}

// RegisterHandler binds a handler to a task kind. Call before Process runs.
func (d *Dispatcher) RegisterHandler(kind dispatch.TaskKind, handler dispatch.Handler) {
	d.handlers[kind] = handler
}

// Process runs one task to completion: success, rescheduled retry, or dead
// letter. The task is considered consumed in all three cases, so the worker
// loop never sees an error it has to act on.
func (d *Dispatcher) Process(ctx context.Context, task *dispatch.Task) {
	handler, ok := d.handlers[task.Kind]
	if !ok {
		// No handler will ever appear mid-flight; retrying is pointless.
		d.bury(ctx, task, dispatch.ErrUnknownTaskKind().WithDetail("kind", string(task.Kind)))
		return
	}

	err := handler.Handle(ctx, task)
	if err == nil {
		return
	}

	task.AttemptCount++
	if task.AttemptCount >= d.maxAttempts {
		d.bury(ctx, task, err)
		return
	}

	delay := d.backoff(task.AttemptCount)
	logx.Warnf("dispatch: task %s (%s) attempt %d failed, retrying in %s: %v",
		task.ID, task.Kind, task.AttemptCount, delay, err)

	if qerr := d.queue.EnqueueDelayed(ctx, task, delay); qerr != nil {
		// Cannot reschedule; keep the task instead of dropping it.
		logx.Errorf("dispatch: failed to reschedule task %s: %v", task.ID, qerr)
		d.bury(ctx, task, err)
	}
}

// ListDeadLetters exposes the dead-letter store for operator inspection.
func (d *Dispatcher) ListDeadLetters(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[dispatch.DeadLetter], error) {
	letters, err := d.deadLetters.List(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list dead letters", errx.TypeInternal)
	}
	return letters, nil
}

// ReplayDeadLetter puts a dead letter back on the queue with a fresh attempt
// budget and removes it from the store.
func (d *Dispatcher) ReplayDeadLetter(ctx context.Context, id kernel.TaskID) error {
	letter, err := d.deadLetters.GetByID(ctx, id)
	if err != nil {
		return err
	}

	task := &dispatch.Task{
		ID:         letter.ID,
		Kind:       letter.Kind,
		Payload:    letter.Payload,
		EnqueuedAt: time.Now(),
	}
	if err := d.queue.Enqueue(ctx, task); err != nil {
		return errx.Wrap(err, "failed to re-enqueue dead letter", errx.TypeInternal)
	}

	if err := d.deadLetters.Delete(ctx, id); err != nil {
		logx.Warnf("dispatch: replayed dead letter %s but failed to delete it: %v", id, err)
	}
	return nil
}

func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := d.baseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay > 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return delay
}

func (d *Dispatcher) bury(ctx context.Context, task *dispatch.Task, cause error) {
	letter := &dispatch.DeadLetter{
		ID:           task.ID,
		Kind:         task.Kind,
		Payload:      task.Payload,
		AttemptCount: task.AttemptCount,
		LastError:    cause.Error(),
		EnqueuedAt:   task.EnqueuedAt,
		FailedAt:     time.Now(),
	}
	if err := d.deadLetters.Save(ctx, letter); err != nil {
		logx.Errorf("dispatch: failed to store dead letter %s: %v (last error: %v)", task.ID, err, cause)
		return
	}
	logx.Errorf("dispatch: task %s (%s) dead-lettered after %d attempts: %v",
		task.ID, task.Kind, task.AttemptCount, cause)
}
