package notification

import (
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type Notification struct {
	ID        kernel.NotificationID `db:"id" json:"id"`
	UserID    kernel.UserID         `db:"user_id" json:"user_id"`
	Title     string                `db:"title" json:"title"`
	Body      string                `db:"body" json:"body"`
	ReadAt    *time.Time            `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time             `db:"created_at" json:"created_at"`
}

// IsRead checks if the notification was read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
	}
}
