package dispatch

import (
	"context"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Enqueuer is the narrow producer-side interface handed to services.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *Task) error
}

// Queue is the full task queue contract. Tasks wait on a ready list; delayed
// tasks (retries) sit in a schedule until due.
type Queue interface {
	Enqueuer

	// EnqueueDelayed schedules a task to become ready after delay
	EnqueueDelayed(ctx context.Context, task *Task, delay time.Duration) error

	// Dequeue pops the next ready task, blocking up to timeout. A nil task
	// with nil error means the wait timed out.
	Dequeue(ctx context.Context, timeout time.Duration) (*Task, error)

	// MoveDelayedToReady promotes due delayed tasks to the ready list
	MoveDelayedToReady(ctx context.Context) (int, error)

	// ReadySize returns the number of tasks awaiting a worker
	ReadySize(ctx context.Context) (int64, error)

	// DelayedSize returns the number of scheduled retries
	DelayedSize(ctx context.Context) (int64, error)
}

// Handler executes one kind of task.
type Handler interface {
	Handle(ctx context.Context, task *Task) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, task *Task) error

func (f HandlerFunc) Handle(ctx context.Context, task *Task) error {
	return f(ctx, task)
}

// DeadLetterRepository persists tasks that exhausted their retries.
type DeadLetterRepository interface {
	// Save stores a dead letter
	Save(ctx context.Context, letter *DeadLetter) error

	// List retrieves dead letters, newest first
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[DeadLetter], error)

	// GetByID retrieves a dead letter by task ID
	GetByID(ctx context.Context, id kernel.TaskID) (*DeadLetter, error)

	// Delete removes a dead letter after replay or manual resolution
	Delete(ctx context.Context, id kernel.TaskID) error
}

// Mailer delivers outbound mail.
type Mailer interface {
	Send(ctx context.Context, to kernel.Email, subject, body string) error
}
