package worker

import (
	"context"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// TaskWorker runs a pool of goroutines draining the task queue, plus a pump
// that promotes due retries back onto the ready list.
type TaskWorker struct {
	dispatcher   *dispatchsrv.Dispatcher
	queue        dispatch.Queue
	workers      int
	pollInterval time.Duration
}

func NewTaskWorker(dispatcher *dispatchsrv.Dispatcher, queue dispatch.Queue, workers int, pollInterval time.Duration) *TaskWorker {
	if workers < 1 {
		workers = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &TaskWorker{
		dispatcher:   dispatcher,
		queue:        queue,
		workers:      workers,
		pollInterval: pollInterval,
	}
}

func (w *TaskWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d dispatch workers", w.workers)

	go w.moveDelayedTasks(ctx)

	for i := 0; i < w.workers; i++ {
		go w.processTasks(ctx, i)
	}
}

func (w *TaskWorker) processTasks(ctx context.Context, workerID int) {
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
			task, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				continue
			}

			// nil task means the blocking pop timed out
			if task == nil {
				continue
			}

			logx.Debugf("Worker %d processing task %s (%s)", workerID, task.ID, task.Kind)
			w.dispatcher.Process(ctx, task)
		}
	}
}

func (w *TaskWorker) moveDelayedTasks(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed tasks: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed tasks to ready queue", count)
			}
		}
	}
}
