package discoveryinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// PostgresReader implements discovery.Reader against the jobs table. Text
// matching is plain ILIKE; full-text indexing is deliberately out of scope.
type PostgresReader struct {
	db *sqlx.DB
}

// NewPostgresReader creates a new PostgreSQL discovery reader
func NewPostgresReader(db *sqlx.DB) *PostgresReader {
	return &PostgresReader{
		db: db,
	}
}

var _ discovery.Reader = (*PostgresReader)(nil)

type jobRow struct {
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

func (r *jobRow) toEntity() job.Job {
	return job.Job{
		ID:               kernel.JobID(r.ID),
		CompanyID:        kernel.CompanyID(r.CompanyID),
		Title:            kernel.JobTitle(r.Title),
		Slug:             kernel.JobSlug(r.Slug),
		Description:      kernel.JobDescription(r.Description),
		Location:         r.Location,
		Status:           job.JobStatus(r.Status),
		MaxApplications:  r.MaxApplications,
		MaxApproved:      r.MaxApproved,
		ApplicationCount: r.ApplicationCount,
		ApprovedCount:    r.ApprovedCount,
		ExpiresAt:        r.ExpiresAt,
		PublishedAt:      r.PublishedAt,
		ArchivedAt:       r.ArchivedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

const jobColumns = `
	id, company_id, title, slug, description, location, status,
	max_applications, max_approved, application_count, approved_count,
	expires_at, published_at, archived_at, created_at, updated_at
`

// Only published, unexpired jobs are visible to the public read side.
const visibleWhere = `
	status = 'PUBLISHED'
	AND (expires_at IS NULL OR expires_at > NOW())
`

// SearchJobs retrieves published jobs matching the filters
func (r *PostgresReader) SearchJobs(ctx context.Context, filters discovery.SearchFilters) (*kernel.Paginated[job.Job], error) {
	where := visibleWhere + `
		AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		AND ($2 = '' OR location ILIKE '%' || $2 || '%')
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, filters.Query, filters.Location); err != nil {
		return nil, fmt.Errorf("failed to count matching jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE ` + where + `
		ORDER BY published_at DESC NULLS LAST
		LIMIT $3 OFFSET $4
	`

	var rows []jobRow
	if err := r.db.SelectContext(ctx, &rows, query,
		filters.Query, filters.Location,
		filters.Pagination.Limit(), filters.Pagination.Offset(),
	); err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	return paginate(rows, filters.Pagination, total), nil
}

// CompanyJobs retrieves a company's published jobs
func (r *PostgresReader) CompanyJobs(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	where := visibleWhere + ` AND company_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs WHERE `+where, companyID.String()); err != nil {
		return nil, fmt.Errorf("failed to count company jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE ` + where + `
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`

	var rows []jobRow
	if err := r.db.SelectContext(ctx, &rows, query, companyID.String(), pagination.Limit(), pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}

	return paginate(rows, pagination, total), nil
}

// JobBySlug retrieves one published job by its URL slug
func (r *PostgresReader) JobBySlug(ctx context.Context, slug kernel.JobSlug) (*job.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE ` + visibleWhere + ` AND slug = $1
	`

	var row jobRow
	err := r.db.GetContext(ctx, &row, query, slug.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound().WithDetail("slug", slug.String())
		}
		return nil, fmt.Errorf("failed to get job by slug: %w", err)
	}

	entity := row.toEntity()
	return &entity, nil
}

// BoardStats computes board-wide aggregates in one scan over jobs
func (r *PostgresReader) BoardStats(ctx context.Context) (*discovery.BoardStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_jobs,
			COUNT(*) FILTER (WHERE status = 'PUBLISHED') AS published_jobs,
			COALESCE(SUM(application_count), 0) AS total_applications,
			COALESCE(SUM(approved_count), 0) AS approved_applications
		FROM jobs
	`

	var stats discovery.BoardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to compute board stats: %w", err)
	}

	return &stats, nil
}

func paginate(rows []jobRow, pagination kernel.PaginationOptions, total int) *kernel.Paginated[job.Job] {
	items := make([]job.Job, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toEntity())
	}
	return kernel.NewPaginated(items, pagination, total)
}
