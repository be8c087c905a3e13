package jobsrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thaihadefi/Innovation-Project-sub000/board/application"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// Invalidator evicts cached read-side entries affected by a job change.
type Invalidator interface {
	OnCapacityOrVisibilityChange(ctx context.Context, jobID kernel.JobID)
}

// JobService provides business operations for job postings
type JobService struct {
	jobRepo         job.Repository
	applicationRepo application.Repository
	enqueuer        dispatch.Enqueuer
	invalidator     Invalidator
}

// NewJobService creates a new instance of the job service
func NewJobService(
	jobRepo job.Repository,
	applicationRepo application.Repository,
	enqueuer dispatch.Enqueuer,
	invalidator Invalidator,
) *JobService {
	return &JobService{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		enqueuer:        enqueuer,
		invalidator:     invalidator,
	}
}

// CreateJob creates a new job posting in draft status
func (s *JobService) CreateJob(ctx context.Context, authCtx *auth.AuthContext, req job.CreateJobRequest) (*job.JobResponse, error) {
	if !authCtx.IsCompany() {
		return nil, job.ErrInsufficientPermissions().WithDetail("reason", "company account required")
	}
	if !authCtx.HasAnyScope(auth.ScopeJobsWrite, auth.ScopeJobsAll) {
		return nil, job.ErrInsufficientPermissions().WithDetail("required_scope", "jobs:write")
	}
	if req.MaxApplications < 0 || req.MaxApproved < 0 {
		return nil, job.ErrInvalidCaps()
	}

	now := time.Now()
	newJob := &job.Job{
		ID:              kernel.NewJobID(uuid.NewString()),
		CompanyID:       authCtx.CompanyID,
		Title:           req.Title,
		Slug:            makeSlug(req.Title),
		Description:     req.Description,
		Location:        req.Location,
		Status:          job.JobStatusDraft,
		MaxApplications: req.MaxApplications,
		MaxApproved:     req.MaxApproved,
		ExpiresAt:       req.ExpiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return nil, e
		}
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	resp := job.ToResponse(newJob)
	return &resp, nil
}

// GetJobByID retrieves a job by ID
func (s *JobService) GetJobByID(ctx context.Context, jobID kernel.JobID) (*job.JobResponse, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}

	resp := job.ToResponse(jobEntity)
	return &resp, nil
}

// GetJobBySlug retrieves a job by its URL slug
func (s *JobService) GetJobBySlug(ctx context.Context, slug kernel.JobSlug) (*job.JobResponse, error) {
	jobEntity, err := s.jobRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("slug", slug.String())
	}

	resp := job.ToResponse(jobEntity)
	return &resp, nil
}

// ListCompanyJobs retrieves the calling company's jobs
func (s *JobService) ListCompanyJobs(ctx context.Context, authCtx *auth.AuthContext, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.ListByCompany(ctx, authCtx.CompanyID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list company jobs", errx.TypeInternal)
	}
	return toPaginatedResponse(jobs), nil
}

// ListPublishedJobs retrieves the public listing of open jobs
func (s *JobService) ListPublishedJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.ListPublished(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list published jobs", errx.TypeInternal)
	}
	return toPaginatedResponse(jobs), nil
}

// UpdateJob updates a job's details and caps. Cap or expiry changes alter
// what discovery should show, so they trigger invalidation.
func (s *JobService) UpdateJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID, req job.UpdateJobRequest) (*job.JobResponse, error) {
	jobEntity, err := s.ownedJob(ctx, authCtx, jobID)
	if err != nil {
		return nil, err
	}

	var title kernel.JobTitle
	var description kernel.JobDescription
	var location string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Location != nil {
		location = *req.Location
	}
	jobEntity.UpdateDetails(title, description, location)

	capsChanged := false
	if req.MaxApplications != nil || req.MaxApproved != nil {
		maxApplications := jobEntity.MaxApplications
		maxApproved := jobEntity.MaxApproved
		if req.MaxApplications != nil {
			maxApplications = *req.MaxApplications
		}
		if req.MaxApproved != nil {
			maxApproved = *req.MaxApproved
		}
		if err := jobEntity.UpdateCaps(maxApplications, maxApproved); err != nil {
			return nil, err
		}
		capsChanged = true
	}

	if req.ClearExpiry {
		jobEntity.ExpiresAt = nil
		jobEntity.UpdatedAt = time.Now()
		capsChanged = true
	} else if req.ExpiresAt != nil {
		jobEntity.ExpiresAt = req.ExpiresAt
		jobEntity.UpdatedAt = time.Now()
		capsChanged = true
	}

	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return nil, e
		}
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}

	if capsChanged {
		s.invalidator.OnCapacityOrVisibilityChange(ctx, jobID)
	}

	resp := job.ToResponse(jobEntity)
	return &resp, nil
}

// PublishJob makes the job visible and open for applications
func (s *JobService) PublishJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID) (*job.JobResponse, error) {
	return s.transition(ctx, authCtx, jobID, func(j *job.Job) error {
		return j.Publish()
	})
}

// CloseJob stops the job from accepting applications
func (s *JobService) CloseJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID) (*job.JobResponse, error) {
	return s.transition(ctx, authCtx, jobID, func(j *job.Job) error {
		j.Close()
		return nil
	})
}

// ArchiveJob hides the job from discovery
func (s *JobService) ArchiveJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID) (*job.JobResponse, error) {
	return s.transition(ctx, authCtx, jobID, func(j *job.Job) error {
		return j.Archive()
	})
}

// DeleteJob removes the job and everything attached to it. Application rows
// go with the job via the cascading foreign key; stored attachments and
// applicant notifications are handed to the dispatcher, which tolerates rows
// that are already gone by the time a task runs.
func (s *JobService) DeleteJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID) error {
	jobEntity, err := s.ownedJob(ctx, authCtx, jobID)
	if err != nil {
		return err
	}

	applications, err := s.applicationRepo.ListAllByJob(ctx, jobID)
	if err != nil {
		return errx.Wrap(err, "failed to list applications for job deletion", errx.TypeInternal)
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return e
		}
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
	}

	for _, app := range applications {
		if !app.ResumePath.IsEmpty() {
			s.enqueue(ctx, dispatch.NewFileCleanupTask(string(app.ResumePath)))
		}
		s.enqueue(ctx, dispatch.NewNotificationTask(
			app.ApplicantID,
			"Job posting removed",
			"The job '"+string(jobEntity.Title)+"' you applied to has been removed.",
		))
	}

	s.invalidator.OnCapacityOrVisibilityChange(ctx, jobID)
	return nil
}

func (s *JobService) transition(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID, mutate func(*job.Job) error) (*job.JobResponse, error) {
	jobEntity, err := s.ownedJob(ctx, authCtx, jobID)
	if err != nil {
		return nil, err
	}

	if err := mutate(jobEntity); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return nil, e
		}
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}

	s.invalidator.OnCapacityOrVisibilityChange(ctx, jobID)

	resp := job.ToResponse(jobEntity)
	return &resp, nil
}

func (s *JobService) ownedJob(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID) (*job.Job, error) {
	if !authCtx.IsCompany() {
		return nil, job.ErrInsufficientPermissions().WithDetail("reason", "company account required")
	}

	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	if !jobEntity.IsOwnedBy(authCtx.CompanyID) {
		return nil, job.ErrNotJobOwner().WithDetail("job_id", jobID.String())
	}

	return jobEntity, nil
}

func (s *JobService) enqueue(ctx context.Context, task *dispatch.Task) {
	if err := s.enqueuer.Enqueue(ctx, task); err != nil {
		logx.Errorf("job: failed to enqueue %s task: %v", task.Kind, err)
	}
}

func toPaginatedResponse(jobs *kernel.Paginated[job.Job]) *job.PaginatedJobsResponse {
	responses := make([]job.JobResponse, 0, len(jobs.Items))
	for i := range jobs.Items {
		responses = append(responses, job.ToResponse(&jobs.Items[i]))
	}
	return &job.PaginatedJobsResponse{
		Items: responses,
		Page:  jobs.Page,
		Empty: jobs.Empty,
	}
}

func makeSlug(title kernel.JobTitle) kernel.JobSlug {
	slug := strings.ToLower(strings.TrimSpace(string(title)))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	// Suffix keeps slugs unique across identical titles.
	return kernel.JobSlug(slug + "-" + uuid.NewString()[:8])
}
