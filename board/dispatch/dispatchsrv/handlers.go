package dispatchsrv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/fsx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// NewNotificationHandler writes in-app notification rows. The source of the
// task may be gone by the time it runs; that is not a failure.
func NewNotificationHandler(repo notification.Repository) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, task *dispatch.Task) error {
		var payload dispatch.NotificationPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return dispatch.ErrInvalidPayload().WithDetail("task_id", task.ID.String())
		}

		return repo.Create(ctx, &notification.Notification{
			ID:        kernel.NewNotificationID(uuid.NewString()),
			UserID:    payload.UserID,
			Title:     payload.Title,
			Body:      payload.Body,
			CreatedAt: time.Now(),
		})
	})
}

// NewEmailHandler sends outbound mail through the configured mailer.
func NewEmailHandler(mailer dispatch.Mailer) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, task *dispatch.Task) error {
		var payload dispatch.EmailPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return dispatch.ErrInvalidPayload().WithDetail("task_id", task.ID.String())
		}

		return mailer.Send(ctx, payload.To, payload.Subject, payload.Body)
	})
}

// NewFileCleanupHandler removes stored attachments. A missing object counts
// as done: the row it belonged to was deleted and someone else cleaned up
// first, or the delete is being retried.
func NewFileCleanupHandler(fs fsx.FileSystem) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, task *dispatch.Task) error {
		var payload dispatch.FileCleanupPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return dispatch.ErrInvalidPayload().WithDetail("task_id", task.ID.String())
		}

		exists, err := fs.Exists(ctx, payload.Path)
		if err == nil && !exists {
			logx.Debugf("dispatch: file %s already gone, cleanup is a no-op", payload.Path)
			return nil
		}

		if err := fs.DeleteFile(ctx, payload.Path); err != nil {
			if e, ok := err.(*errx.Error); ok && e.Type == errx.TypeNotFound {
				return nil
			}
			return err
		}
		return nil
	})
}
