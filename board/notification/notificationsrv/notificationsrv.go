package notificationsrv

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/board/notification"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// NotificationService provides the user-facing notification operations.
// Everything is scoped to the authenticated user; the repository enforces
// the same scoping on its write paths.
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new instance of the notification service
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

// ListMyNotifications retrieves the caller's notifications, newest first
func (s *NotificationService) ListMyNotifications(ctx context.Context, authCtx *auth.AuthContext, pagination kernel.PaginationOptions) (*kernel.Paginated[notification.Notification], error) {
	items, err := s.repo.ListByUser(ctx, authCtx.UserID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list notifications", errx.TypeInternal)
	}
	return items, nil
}

// UnreadCount counts the caller's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, authCtx *auth.AuthContext) (int64, error) {
	count, err := s.repo.CountUnread(ctx, authCtx.UserID)
	if err != nil {
		return 0, errx.Wrap(err, "failed to count unread notifications", errx.TypeInternal)
	}
	return count, nil
}

// MarkRead acknowledges one of the caller's notifications
func (s *NotificationService) MarkRead(ctx context.Context, authCtx *auth.AuthContext, id kernel.NotificationID) error {
	if err := s.repo.MarkRead(ctx, id, authCtx.UserID); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return e
		}
		return errx.Wrap(err, "failed to mark notification read", errx.TypeInternal)
	}
	return nil
}

// MarkAllRead acknowledges every unread notification of the caller
func (s *NotificationService) MarkAllRead(ctx context.Context, authCtx *auth.AuthContext) error {
	if err := s.repo.MarkAllRead(ctx, authCtx.UserID); err != nil {
		return errx.Wrap(err, "failed to mark notifications read", errx.TypeInternal)
	}
	return nil
}
