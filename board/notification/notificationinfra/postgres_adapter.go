package notificationinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thaihadefi/Innovation-Project-sub000/board/notification"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// PostgresNotificationRepository implements notification.Repository using
// PostgreSQL. Rows are written by the dispatch worker and read by the user
// facing endpoints; the entity carries db tags, so no separate model is needed.
type PostgresNotificationRepository struct {
	db *sqlx.DB
}

// NewPostgresNotificationRepository creates a new PostgreSQL notification repository
func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		db: db,
	}
}

var _ notification.Repository = (*PostgresNotificationRepository)(nil)

const notificationColumns = `id, user_id, title, body, read_at, created_at`

// Create stores a new notification
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, body, read_at, created_at)
		VALUES (:id, :user_id, :title, :body, :read_at, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n notification.Notification
	if err := r.db.GetContext(ctx, &n, query, string(id)); err != nil {
		if err == sql.ErrNoRows {
			return nil, notification.ErrNotificationNotFound()
		}
		return nil, fmt.Errorf("failed to get notification by id: %w", err)
	}

	return &n, nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[notification.Notification], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID.String()); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var items []notification.Notification
	if err := r.db.SelectContext(ctx, &items, query, userID.String(), pagination.Limit(), pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return kernel.NewPaginated(items, pagination, total), nil
}

// CountUnread counts a user's unread notifications
func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID kernel.UserID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	if err := r.db.GetContext(ctx, &count, query, userID.String()); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification as read. The user filter keeps one user
// from acknowledging another's notifications.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id kernel.NotificationID, userID kernel.UserID) error {
	query := `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, string(id), userID.String())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Either missing, foreign, or already read. Already-read is fine.
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`
		if err := r.db.GetContext(ctx, &exists, check, string(id), userID.String()); err != nil {
			return fmt.Errorf("failed to check notification existence: %w", err)
		}
		if !exists {
			return notification.ErrNotificationNotFound()
		}
	}

	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UserID) error {
	query := `UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, userID.String()); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
