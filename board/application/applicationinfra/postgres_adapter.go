package applicationinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thaihadefi/Innovation-Project-sub000/board/application"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// PostgresApplicationRepository implements application.Repository using
// PostgreSQL. A unique index on (job_id, applicant_id) backs the one
// application per applicant per job rule.
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

// ============================================================================
// Database Model
// ============================================================================

type applicationModel struct {
	ID              string     `db:"id"`
	JobID           string     `db:"job_id"`
	ApplicantID     string     `db:"applicant_id"`
	ApplicantEmail  string     `db:"applicant_email"`
	CoverLetter     string     `db:"cover_letter"`
	ResumePath      string     `db:"resume_path"`
	Status          string     `db:"status"`
	StatusChangedAt *time.Time `db:"status_changed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:              kernel.ApplicationID(m.ID),
		JobID:           kernel.JobID(m.JobID),
		ApplicantID:     kernel.UserID(m.ApplicantID),
		ApplicantEmail:  kernel.Email(m.ApplicantEmail),
		CoverLetter:     m.CoverLetter,
		ResumePath:      kernel.BucketURL(m.ResumePath),
		Status:          application.ApplicationStatus(m.Status),
		StatusChangedAt: m.StatusChangedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(a *application.Application) *applicationModel {
	return &applicationModel{
		ID:              string(a.ID),
		JobID:           string(a.JobID),
		ApplicantID:     string(a.ApplicantID),
		ApplicantEmail:  string(a.ApplicantEmail),
		CoverLetter:     a.CoverLetter,
		ResumePath:      string(a.ResumePath),
		Status:          string(a.Status),
		StatusChangedAt: a.StatusChangedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

const applicationColumns = `
	id, job_id, applicant_id, applicant_email, cover_letter, resume_path,
	status, status_changed_at, created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	model := fromEntity(app)

	query := `
		INSERT INTO applications (
			id, job_id, applicant_id, applicant_email, cover_letter, resume_path,
			status, status_changed_at, created_at, updated_at
		) VALUES (
			:id, :job_id, :applicant_id, :applicant_email, :cover_letter, :resume_path,
			:status, :status_changed_at, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return application.ErrAlreadyApplied()
			}
			if pqErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("job no longer exists: %w", err)
			}
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	var model applicationModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	return model.toEntity(), nil
}

// UpdateStatusCAS changes the status only if it still equals expected. The
// WHERE clause carries the expectation, so two racing updates resolve on the
// row lock and exactly one sees a row match.
func (r *PostgresApplicationRepository) UpdateStatusCAS(ctx context.Context, id kernel.ApplicationID, expected, next application.ApplicationStatus) (bool, error) {
	query := `
		UPDATE applications SET
			status = $3,
			status_changed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, string(id), string(expected), string(next))
	if err != nil {
		return false, fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Delete deletes an application by ID
func (r *PostgresApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}

// ListByJob retrieves a job's applications with pagination
func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, string(jobID)); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE job_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, string(jobID), pagination.Limit(), pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ListAllByJob retrieves every application for a job
func (r *PostgresApplicationRepository) ListAllByJob(ctx context.Context, jobID kernel.JobID) ([]*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1`

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, string(jobID)); err != nil {
		return nil, fmt.Errorf("failed to list all applications by job: %w", err)
	}

	apps := make([]*application.Application, 0, len(models))
	for i := range models {
		apps = append(apps, models[i].toEntity())
	}
	return apps, nil
}

// ListByApplicant retrieves an applicant's applications with pagination
func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM applications WHERE applicant_id = $1`, string(applicantID)); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, string(applicantID), pagination.Limit(), pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list applications by applicant: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ExistsForJobAndApplicant checks whether the applicant already applied
func (r *PostgresApplicationRepository) ExistsForJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicantID kernel.UserID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, string(jobID), string(applicantID)); err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}

	return exists, nil
}

func paginate(models []applicationModel, pagination kernel.PaginationOptions, total int) *kernel.Paginated[application.Application] {
	items := make([]application.Application, 0, len(models))
	for i := range models {
		items = append(items, *models[i].toEntity())
	}
	return kernel.NewPaginated(items, pagination, total)
}
