package jobinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thaihadefi/Innovation-Project-sub000/board/admission"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// PostgresJobRepository implements job.Repository and admission.CounterStore
// using PostgreSQL. Both live on the same table: the capacity counters are
// columns of jobs, so a conditional counter update and the row it guards can
// never disagree.
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

var _ job.Repository = (*PostgresJobRepository)(nil)
var _ admission.CounterStore = (*PostgresJobRepository)(nil)

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID               string     `db:"id"`
	CompanyID        string     `db:"company_id"`
	Title            string     `db:"title"`
	Slug             string     `db:"slug"`
	Description      string     `db:"description"`
	Location         string     `db:"location"`
	Status           string     `db:"status"`
	MaxApplications  int        `db:"max_applications"`
	MaxApproved      int        `db:"max_approved"`
	ApplicationCount int        `db:"application_count"`
	ApprovedCount    int        `db:"approved_count"`
	ExpiresAt        *time.Time `db:"expires_at"`
	PublishedAt      *time.Time `db:"published_at"`
	ArchivedAt       *time.Time `db:"archived_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() *job.Job {
	return &job.Job{
		ID:               kernel.JobID(m.ID),
		CompanyID:        kernel.CompanyID(m.CompanyID),
		Title:            kernel.JobTitle(m.Title),
		Slug:             kernel.JobSlug(m.Slug),
		Description:      kernel.JobDescription(m.Description),
		Location:         m.Location,
		Status:           job.JobStatus(m.Status),
		MaxApplications:  m.MaxApplications,
		MaxApproved:      m.MaxApproved,
		ApplicationCount: m.ApplicationCount,
		ApprovedCount:    m.ApprovedCount,
		ExpiresAt:        m.ExpiresAt,
		PublishedAt:      m.PublishedAt,
		ArchivedAt:       m.ArchivedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) *jobModel {
	return &jobModel{
		ID:               string(j.ID),
		CompanyID:        string(j.CompanyID),
		Title:            string(j.Title),
		Slug:             string(j.Slug),
		Description:      string(j.Description),
		Location:         j.Location,
		Status:           string(j.Status),
		MaxApplications:  j.MaxApplications,
		MaxApproved:      j.MaxApproved,
		ApplicationCount: j.ApplicationCount,
		ApprovedCount:    j.ApprovedCount,
		ExpiresAt:        j.ExpiresAt,
		PublishedAt:      j.PublishedAt,
		ArchivedAt:       j.ArchivedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

const jobColumns = `
	id, company_id, title, slug, description, location, status,
	max_applications, max_approved, application_count, approved_count,
	expires_at, published_at, archived_at, created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	model := fromEntity(jobEntity)

	query := `
		INSERT INTO jobs (
			id, company_id, title, slug, description, location, status,
			max_applications, max_approved, application_count, approved_count,
			expires_at, published_at, archived_at, created_at, updated_at
		) VALUES (
			:id, :company_id, :title, :slug, :description, :location, :status,
			:max_applications, :max_approved, :application_count, :approved_count,
			:expires_at, :published_at, :archived_at, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return job.ErrJobAlreadyExists()
			}
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Update updates an existing job. Counters are deliberately not part of the
// statement: they only move through the CounterStore operations.
func (r *PostgresJobRepository) Update(ctx context.Context, jobEntity *job.Job) error {
	model := fromEntity(jobEntity)

	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			location = :location,
			status = :status,
			max_applications = :max_applications,
			max_approved = :max_approved,
			expires_at = :expires_at,
			published_at = :published_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var model jobModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound()
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}

	return model.toEntity(), nil
}

// GetBySlug retrieves a job by its URL slug
func (r *PostgresJobRepository) GetBySlug(ctx context.Context, slug kernel.JobSlug) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE slug = $1`

	var model jobModel
	err := r.db.GetContext(ctx, &model, query, string(slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound()
		}
		return nil, fmt.Errorf("failed to get job by slug: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a job by ID
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	query := `DELETE FROM jobs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// ListByCompany retrieves jobs owned by a company
func (r *PostgresJobRepository) ListByCompany(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	countQuery := `SELECT COUNT(*) FROM jobs WHERE company_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, string(companyID)); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []jobModel
	err := r.db.SelectContext(ctx, &models, query, string(companyID), pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by company: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ListPublished retrieves published, unexpired jobs
func (r *PostgresJobRepository) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	countQuery := `
		SELECT COUNT(*) FROM jobs
		WHERE status = 'PUBLISHED' AND (expires_at IS NULL OR expires_at > NOW())
	`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count published jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = 'PUBLISHED' AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	var models []jobModel
	err := r.db.SelectContext(ctx, &models, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list published jobs: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// Exists checks if a job exists by ID
func (r *PostgresJobRepository) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, string(id)); err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}

	return exists, nil
}

func paginate(models []jobModel, pagination kernel.PaginationOptions, total int) *kernel.Paginated[job.Job] {
	items := make([]job.Job, 0, len(models))
	for i := range models {
		items = append(items, *models[i].toEntity())
	}
	return kernel.NewPaginated(items, pagination, total)
}

// ============================================================================
// Counter Store Implementation
// ============================================================================

// ReserveSlot takes one application slot. The guard and the increment are a
// single statement, so the database serializes racing reservations on the
// row lock: at most cap-minus-count of them can match.
func (r *PostgresJobRepository) ReserveSlot(ctx context.Context, jobID kernel.JobID) (bool, error) {
	query := `
		UPDATE jobs SET
			application_count = application_count + 1,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'PUBLISHED'
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (max_applications = 0 OR application_count < max_applications)
		  AND (max_approved = 0 OR approved_count < max_approved)
	`

	result, err := r.db.ExecContext(ctx, query, string(jobID))
	if err != nil {
		return false, fmt.Errorf("failed to reserve application slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// ReleaseSlot returns an application slot. The zero guard makes the release
// idempotent against double compensation.
func (r *PostgresJobRepository) ReleaseSlot(ctx context.Context, jobID kernel.JobID) error {
	query := `
		UPDATE jobs SET
			application_count = application_count - 1,
			updated_at = NOW()
		WHERE id = $1 AND application_count > 0
	`

	if _, err := r.db.ExecContext(ctx, query, string(jobID)); err != nil {
		return fmt.Errorf("failed to release application slot: %w", err)
	}

	return nil
}

// TransferToApproved takes one approved slot if the cap leaves room.
func (r *PostgresJobRepository) TransferToApproved(ctx context.Context, jobID kernel.JobID) (bool, error) {
	query := `
		UPDATE jobs SET
			approved_count = approved_count + 1,
			updated_at = NOW()
		WHERE id = $1
		  AND (max_approved = 0 OR approved_count < max_approved)
	`

	result, err := r.db.ExecContext(ctx, query, string(jobID))
	if err != nil {
		return false, fmt.Errorf("failed to take approved slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// TransferFromApproved returns an approved slot.
func (r *PostgresJobRepository) TransferFromApproved(ctx context.Context, jobID kernel.JobID) error {
	query := `
		UPDATE jobs SET
			approved_count = approved_count - 1,
			updated_at = NOW()
		WHERE id = $1 AND approved_count > 0
	`

	if _, err := r.db.ExecContext(ctx, query, string(jobID)); err != nil {
		return fmt.Errorf("failed to return approved slot: %w", err)
	}

	return nil
}

// Counters reads the current counter values for denial classification
func (r *PostgresJobRepository) Counters(ctx context.Context, jobID kernel.JobID) (*admission.CounterSnapshot, error) {
	query := `
		SELECT application_count, approved_count, max_applications, max_approved, expires_at
		FROM jobs
		WHERE id = $1
	`

	var row struct {
		ApplicationCount int        `db:"application_count"`
		ApprovedCount    int        `db:"approved_count"`
		MaxApplications  int        `db:"max_applications"`
		MaxApproved      int        `db:"max_approved"`
		ExpiresAt        *time.Time `db:"expires_at"`
	}
	err := r.db.GetContext(ctx, &row, query, string(jobID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound()
		}
		return nil, fmt.Errorf("failed to read job counters: %w", err)
	}

	return &admission.CounterSnapshot{
		ApplicationCount: row.ApplicationCount,
		ApprovedCount:    row.ApprovedCount,
		MaxApplications:  row.MaxApplications,
		MaxApproved:      row.MaxApproved,
		ExpiresAt:        row.ExpiresAt,
	}, nil
}
