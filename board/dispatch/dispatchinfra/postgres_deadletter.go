package dispatchinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// PostgresDeadLetterRepository implements dispatch.DeadLetterRepository using
// PostgreSQL. Dead letters outlive Redis restarts on purpose.
type PostgresDeadLetterRepository struct {
	db *sqlx.DB
}

// NewPostgresDeadLetterRepository creates a new PostgreSQL dead-letter repository
func NewPostgresDeadLetterRepository(db *sqlx.DB) *PostgresDeadLetterRepository {
	return &PostgresDeadLetterRepository{
		db: db,
	}
}

var _ dispatch.DeadLetterRepository = (*PostgresDeadLetterRepository)(nil)

// Save stores a dead letter. Saving the same task twice keeps the latest
// failure.
func (r *PostgresDeadLetterRepository) Save(ctx context.Context, letter *dispatch.DeadLetter) error {
	query := `
		INSERT INTO dispatch_dead_letters (
			id, kind, payload, attempt_count, last_error, enqueued_at, failed_at
		) VALUES (
			:id, :kind, :payload, :attempt_count, :last_error, :enqueued_at, :failed_at
		)
		ON CONFLICT (id) DO UPDATE SET
			attempt_count = EXCLUDED.attempt_count,
			last_error = EXCLUDED.last_error,
			failed_at = EXCLUDED.failed_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, letter); err != nil {
		return fmt.Errorf("failed to save dead letter: %w", err)
	}

	return nil
}

// List retrieves dead letters, newest first
func (r *PostgresDeadLetterRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[dispatch.DeadLetter], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM dispatch_dead_letters`); err != nil {
		return nil, fmt.Errorf("failed to count dead letters: %w", err)
	}

	query := `
		SELECT id, kind, payload, attempt_count, last_error, enqueued_at, failed_at
		FROM dispatch_dead_letters
		ORDER BY failed_at DESC
		LIMIT $1 OFFSET $2
	`

	var letters []dispatch.DeadLetter
	if err := r.db.SelectContext(ctx, &letters, query, pagination.Limit(), pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}

	return kernel.NewPaginated(letters, pagination, total), nil
}

// GetByID retrieves a dead letter by task ID
func (r *PostgresDeadLetterRepository) GetByID(ctx context.Context, id kernel.TaskID) (*dispatch.DeadLetter, error) {
	query := `
		SELECT id, kind, payload, attempt_count, last_error, enqueued_at, failed_at
		FROM dispatch_dead_letters
		WHERE id = $1
	`

	var letter dispatch.DeadLetter
	err := r.db.GetContext(ctx, &letter, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dispatch.ErrDeadLetterMissing()
		}
		return nil, fmt.Errorf("failed to get dead letter: %w", err)
	}

	return &letter, nil
}

// Delete removes a dead letter
func (r *PostgresDeadLetterRepository) Delete(ctx context.Context, id kernel.TaskID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dispatch_dead_letters WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete dead letter: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return dispatch.ErrDeadLetterMissing()
	}

	return nil
}
