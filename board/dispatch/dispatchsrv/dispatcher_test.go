package dispatchsrv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type fakeQueue struct {
	mu      sync.Mutex
	ready   []*dispatch.Task
	delayed []delayedEntry
	failAll bool
}

type delayedEntry struct {
	task  *dispatch.Task
	delay time.Duration
}

func (q *fakeQueue) Enqueue(_ context.Context, task *dispatch.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failAll {
		return errors.New("queue down")
	}
	q.ready = append(q.ready, task)
	return nil
}

func (q *fakeQueue) EnqueueDelayed(_ context.Context, task *dispatch.Task, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failAll {
		return errors.New("queue down")
	}
	q.delayed = append(q.delayed, delayedEntry{task: task, delay: delay})
	return nil
}

func (q *fakeQueue) Dequeue(context.Context, time.Duration) (*dispatch.Task, error) {
	return nil, nil
}

func (q *fakeQueue) MoveDelayedToReady(context.Context) (int, error) { return 0, nil }
func (q *fakeQueue) ReadySize(context.Context) (int64, error)        { return 0, nil }
func (q *fakeQueue) DelayedSize(context.Context) (int64, error)      { return 0, nil }

type fakeDeadLetters struct {
	mu      sync.Mutex
	letters map[kernel.TaskID]*dispatch.DeadLetter
}

func newFakeDeadLetters() *fakeDeadLetters {
	return &fakeDeadLetters{letters: make(map[kernel.TaskID]*dispatch.DeadLetter)}
}

func (r *fakeDeadLetters) Save(_ context.Context, letter *dispatch.DeadLetter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.letters[letter.ID] = letter
	return nil
}

func (r *fakeDeadLetters) List(_ context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[dispatch.DeadLetter], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]dispatch.DeadLetter, 0, len(r.letters))
	for _, l := range r.letters {
		items = append(items, *l)
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *fakeDeadLetters) GetByID(_ context.Context, id kernel.TaskID) (*dispatch.DeadLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	letter, ok := r.letters[id]
	if !ok {
		return nil, dispatch.ErrDeadLetterMissing()
	}
	return letter, nil
}

func (r *fakeDeadLetters) Delete(_ context.Context, id kernel.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.letters, id)
	return nil
}

func (r *fakeDeadLetters) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.letters)
}

func TestProcessSuccessConsumesTask(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{}
	deadLetters := newFakeDeadLetters()
	d := NewDispatcher(queue, deadLetters, 3, time.Second)

	var handled int
	d.RegisterHandler(dispatch.TaskKindEmail, dispatch.HandlerFunc(func(context.Context, *dispatch.Task) error {
		handled++
		return nil
	}))

	d.Process(ctx, dispatch.NewEmailTask("a@example.com", "hi", "body"))

	if handled != 1 {
		t.Fatalf("expected handler to run once, ran %d times", handled)
	}
	if len(queue.delayed) != 0 || deadLetters.count() != 0 {
		t.Fatal("successful task must not be rescheduled or dead-lettered")
	}
}

func TestProcessFailureSchedulesRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{}
	deadLetters := newFakeDeadLetters()
	d := NewDispatcher(queue, deadLetters, 3, 2*time.Second)

	d.RegisterHandler(dispatch.TaskKindEmail, dispatch.HandlerFunc(func(context.Context, *dispatch.Task) error {
		return errors.New("smtp down")
	}))

	task := dispatch.NewEmailTask("a@example.com", "hi", "body")
	d.Process(ctx, task)

	if len(queue.delayed) != 1 {
		t.Fatalf("expected 1 delayed retry, got %d", len(queue.delayed))
	}
	if queue.delayed[0].delay != 2*time.Second {
		t.Errorf("first retry delay: got %s, want 2s", queue.delayed[0].delay)
	}
	if queue.delayed[0].task.AttemptCount != 1 {
		t.Errorf("attempt count: got %d, want 1", queue.delayed[0].task.AttemptCount)
	}

	// Second failure doubles the delay.
	d.Process(ctx, queue.delayed[0].task)
	if len(queue.delayed) != 2 {
		t.Fatalf("expected 2 delayed retries, got %d", len(queue.delayed))
	}
	if queue.delayed[1].delay != 4*time.Second {
		t.Errorf("second retry delay: got %s, want 4s", queue.delayed[1].delay)
	}
}

func TestProcessDeadLettersAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{}
	deadLetters := newFakeDeadLetters()
	d := NewDispatcher(queue, deadLetters, 2, time.Second)

	d.RegisterHandler(dispatch.TaskKindFileCleanup, dispatch.HandlerFunc(func(context.Context, *dispatch.Task) error {
		return errors.New("storage down")
	}))

	task := dispatch.NewFileCleanupTask("resumes/app-1/cv.pdf")
	d.Process(ctx, task) // attempt 1: rescheduled
	if len(queue.delayed) != 1 {
		t.Fatalf("expected a retry before exhaustion, got %d", len(queue.delayed))
	}

	d.Process(ctx, queue.delayed[0].task) // attempt 2: exhausted

	if deadLetters.count() != 1 {
		t.Fatalf("expected 1 dead letter, got %d", deadLetters.count())
	}
	letter, err := deadLetters.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get dead letter: %v", err)
	}
	if letter.AttemptCount != 2 {
		t.Errorf("dead letter attempts: got %d, want 2", letter.AttemptCount)
	}
	if letter.LastError == "" {
		t.Error("dead letter must record the last error")
	}
}

func TestProcessUnknownKindGoesStraightToDeadLetter(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{}
	deadLetters := newFakeDeadLetters()
	d := NewDispatcher(queue, deadLetters, 5, time.Second)

	task := dispatch.NewEmailTask("a@example.com", "hi", "body")
	d.Process(ctx, task)

	if len(queue.delayed) != 0 {
		t.Fatal("unknown kind must not be retried")
	}
	if deadLetters.count() != 1 {
		t.Fatalf("expected 1 dead letter, got %d", deadLetters.count())
	}
}

func TestReplayDeadLetterResetsAttempts(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{}
	deadLetters := newFakeDeadLetters()
	d := NewDispatcher(queue, deadLetters, 1, time.Second)

	d.RegisterHandler(dispatch.TaskKindEmail, dispatch.HandlerFunc(func(context.Context, *dispatch.Task) error {
		return errors.New("smtp down")
	}))

	task := dispatch.NewEmailTask("a@example.com", "hi", "body")
	d.Process(ctx, task)
	if deadLetters.count() != 1 {
		t.Fatalf("expected task to dead-letter, got %d letters", deadLetters.count())
	}

	if err := d.ReplayDeadLetter(ctx, task.ID); err != nil {
		t.Fatalf("replay: %v", err)
	}

	if deadLetters.count() != 0 {
		t.Error("replayed dead letter should be removed from the store")
	}
	if len(queue.ready) != 1 {
		t.Fatalf("expected replayed task on the ready list, got %d", len(queue.ready))
	}
	if queue.ready[0].AttemptCount != 0 {
		t.Errorf("replayed attempt count: got %d, want 0", queue.ready[0].AttemptCount)
	}
}
