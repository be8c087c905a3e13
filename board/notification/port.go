package notification

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type Repository interface {
	// Create stores a new notification
	Create(ctx context.Context, n *Notification) error

	// GetByID retrieves a notification by ID
	GetByID(ctx context.Context, id kernel.NotificationID) (*Notification, error)

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Notification], error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID kernel.UserID) (int64, error)

	// MarkRead marks one notification as read
	MarkRead(ctx context.Context, id kernel.NotificationID, userID kernel.UserID) error

	// MarkAllRead marks all of a user's notifications as read
	MarkAllRead(ctx context.Context, userID kernel.UserID) error
}
