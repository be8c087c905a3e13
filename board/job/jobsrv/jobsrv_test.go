package jobsrv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/board/application"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[kernel.JobID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[kernel.JobID]*job.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *j
	r.jobs[j.ID] = &clone
	return nil
}

func (r *fakeJobRepo) Update(_ context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return job.ErrJobNotFound()
	}
	clone := *j
	r.jobs[j.ID] = &clone
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	clone := *j
	return &clone, nil
}

func (r *fakeJobRepo) GetBySlug(_ context.Context, slug kernel.JobSlug) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.Slug == slug {
			clone := *j
			return &clone, nil
		}
	}
	return nil, job.ErrJobNotFound()
}

func (r *fakeJobRepo) Delete(_ context.Context, id kernel.JobID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return job.ErrJobNotFound()
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) ListByCompany(_ context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, j := range r.jobs {
		if j.CompanyID == companyID {
			items = append(items, *j)
		}
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *fakeJobRepo) ListPublished(_ context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, j := range r.jobs {
		if j.IsPublished() {
			items = append(items, *j)
		}
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *fakeJobRepo) Exists(_ context.Context, id kernel.JobID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[id]
	return ok, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps []*application.Application
}

func (r *fakeApplicationRepo) Create(context.Context, *application.Application) error {
	return nil
}

func (r *fakeApplicationRepo) GetByID(context.Context, kernel.ApplicationID) (*application.Application, error) {
	return nil, application.ErrApplicationNotFound()
}

func (r *fakeApplicationRepo) UpdateStatusCAS(context.Context, kernel.ApplicationID, application.ApplicationStatus, application.ApplicationStatus) (bool, error) {
	return true, nil
}

func (r *fakeApplicationRepo) Delete(context.Context, kernel.ApplicationID) error {
	return nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, _ kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return kernel.NewPaginated([]application.Application{}, pagination, 0), nil
}

func (r *fakeApplicationRepo) ListAllByJob(context.Context, kernel.JobID) ([]*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*application.Application{}, r.apps...), nil
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, _ kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return kernel.NewPaginated([]application.Application{}, pagination, 0), nil
}

func (r *fakeApplicationRepo) ExistsForJobAndApplicant(context.Context, kernel.JobID, kernel.UserID) (bool, error) {
	return false, nil
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*dispatch.Task
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, task *dispatch.Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
	return nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (i *fakeInvalidator) OnCapacityOrVisibilityChange(context.Context, kernel.JobID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
}

func (i *fakeInvalidator) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.calls
}

type jobFixture struct {
	service     *JobService
	jobs        *fakeJobRepo
	invalidator *fakeInvalidator
	jobID       kernel.JobID
}

func newJobFixture(expiresAt *time.Time) *jobFixture {
	now := time.Now()
	jobID := kernel.NewJobID("job-1")
	jobs := newFakeJobRepo()
	jobs.jobs[jobID] = &job.Job{
		ID:          jobID,
		CompanyID:   kernel.NewCompanyID("company-1"),
		Title:       "Backend Engineer",
		Slug:        "backend-engineer-a1b2c3d4",
		Description: "Build the backend",
		Status:      job.JobStatusPublished,
		ExpiresAt:   expiresAt,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	invalidator := &fakeInvalidator{}
	service := NewJobService(jobs, &fakeApplicationRepo{}, &fakeEnqueuer{}, invalidator)
	return &jobFixture{service: service, jobs: jobs, invalidator: invalidator, jobID: jobID}
}

func companyCtx(id string) *auth.AuthContext {
	return &auth.AuthContext{
		UserID:    kernel.NewUserID("recruiter-" + id),
		CompanyID: kernel.NewCompanyID(id),
		Scopes:    auth.CompanyScopes(),
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestUpdateJobClearsExpiry(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(timePtr(time.Now().Add(24 * time.Hour)))

	resp, err := f.service.UpdateJob(ctx, companyCtx("company-1"), f.jobID, job.UpdateJobRequest{
		ClearExpiry: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.ExpiresAt != nil {
		t.Errorf("response must report no expiry, got %v", resp.ExpiresAt)
	}

	stored, err := f.jobs.GetByID(ctx, f.jobID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ExpiresAt != nil {
		t.Errorf("stored job must have no expiry, got %v", stored.ExpiresAt)
	}
	if f.invalidator.count() != 1 {
		t.Errorf("clearing expiry changes visibility, want 1 invalidation, got %d", f.invalidator.count())
	}
}

func TestUpdateJobClearExpiryWinsOverNewExpiry(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(timePtr(time.Now().Add(24 * time.Hour)))

	resp, err := f.service.UpdateJob(ctx, companyCtx("company-1"), f.jobID, job.UpdateJobRequest{
		ExpiresAt:   timePtr(time.Now().Add(48 * time.Hour)),
		ClearExpiry: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.ExpiresAt != nil {
		t.Errorf("clear must win over a new expiry, got %v", resp.ExpiresAt)
	}
}

func TestUpdateJobMovesExpiry(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(nil)
	expiry := time.Now().Add(72 * time.Hour)

	resp, err := f.service.UpdateJob(ctx, companyCtx("company-1"), f.jobID, job.UpdateJobRequest{
		ExpiresAt: &expiry,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.ExpiresAt == nil || !resp.ExpiresAt.Equal(expiry) {
		t.Errorf("expiry not applied: got %v, want %v", resp.ExpiresAt, expiry)
	}
	if f.invalidator.count() != 1 {
		t.Errorf("setting expiry changes visibility, want 1 invalidation, got %d", f.invalidator.count())
	}
}

func TestUpdateJobDetailsOnlySkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(nil)
	title := kernel.JobTitle("Senior Backend Engineer")

	resp, err := f.service.UpdateJob(ctx, companyCtx("company-1"), f.jobID, job.UpdateJobRequest{
		Title: &title,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Title != title {
		t.Errorf("title not applied: got %s", resp.Title)
	}
	if f.invalidator.count() != 0 {
		t.Errorf("detail-only updates must not invalidate, got %d", f.invalidator.count())
	}
}

func TestUpdateJobRejectsForeignCompany(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(nil)

	_, err := f.service.UpdateJob(ctx, companyCtx("company-2"), f.jobID, job.UpdateJobRequest{
		ClearExpiry: true,
	})
	if !errx.IsCode(err, job.CodeNotJobOwner) {
		t.Fatalf("foreign company must be rejected, got %v", err)
	}

	stored, getErr := f.jobs.GetByID(ctx, f.jobID)
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if stored.Title != "Backend Engineer" {
		t.Errorf("rejected update must leave the job untouched")
	}
}
