package applicationsrv

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/thaihadefi/Innovation-Project-sub000/board/admission"
	"github.com/thaihadefi/Innovation-Project-sub000/board/application"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/fsx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// Invalidator evicts cached read-side entries affected by a job change.
type Invalidator interface {
	OnCapacityOrVisibilityChange(ctx context.Context, jobID kernel.JobID)
}

// ApplicationService provides business operations for applications. Slot
// movement always goes through the admission controller; when a write after
// a slot movement fails, the compensating action runs before the error is
// returned.
type ApplicationService struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
	admission       *admission.Controller
	fileSystem      fsx.FileSystem
	enqueuer        dispatch.Enqueuer
	invalidator     Invalidator
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	jobRepo job.Repository,
	admissionCtrl *admission.Controller,
	fileSystem fsx.FileSystem,
	enqueuer dispatch.Enqueuer,
	invalidator Invalidator,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		admission:       admissionCtrl,
		fileSystem:      fileSystem,
		enqueuer:        enqueuer,
		invalidator:     invalidator,
	}
}

// Apply submits an application. The slot is reserved before anything is
// written; every later failure releases it.
func (s *ApplicationService) Apply(ctx context.Context, authCtx *auth.AuthContext, req application.ApplyRequest) (*application.ApplicationResponse, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", req.JobID.String())
	}
	if !jobEntity.IsPublished() {
		return nil, application.ErrJobNotAccepting().WithDetail("job_id", req.JobID.String())
	}
	if !req.Email.IsValid() {
		return nil, application.ErrInvalidEmail().WithDetail("email", req.Email.String())
	}

	// Fast-path duplicate check. The unique constraint is the authority;
	// this only spares the counter dance for the common repeat click.
	exists, err := s.applicationRepo.ExistsForJobAndApplicant(ctx, req.JobID, authCtx.UserID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check existing application", errx.TypeInternal)
	}
	if exists {
		return nil, application.ErrAlreadyApplied().WithDetail("job_id", req.JobID.String())
	}

	if err := s.admission.Reserve(ctx, req.JobID); err != nil {
		return nil, err
	}

	now := time.Now()
	app := &application.Application{
		ID:             kernel.NewApplicationID(uuid.NewString()),
		JobID:          req.JobID,
		ApplicantID:    authCtx.UserID,
		ApplicantEmail: kernel.NewEmail(req.Email.String()),
		CoverLetter:    req.CoverLetter,
		Status:         application.ApplicationStatusInitial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var storagePath string
	if len(req.FileData) > 0 {
		storagePath = s.fileSystem.Join("resumes", app.ID.String(), req.FileName)
		if err := s.fileSystem.WriteFile(ctx, storagePath, req.FileData); err != nil {
			s.release(ctx, req.JobID)
			return nil, err
		}
		app.ResumePath = kernel.BucketURL(storagePath)
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		s.release(ctx, req.JobID)
		if storagePath != "" {
			if derr := s.fileSystem.DeleteFile(context.WithoutCancel(ctx), storagePath); derr != nil {
				logx.Warnf("application: failed to remove orphaned upload %s: %v", storagePath, derr)
			}
		}
		if e, ok := err.(*errx.Error); ok {
			return nil, e
		}
		return nil, errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	s.enqueue(ctx, dispatch.NewEmailTask(
		app.ApplicantEmail,
		"Application received",
		"Your application for '"+string(jobEntity.Title)+"' has been received.",
	))
	s.enqueue(ctx, dispatch.NewNotificationTask(
		authCtx.UserID,
		"Application submitted",
		"You applied to '"+string(jobEntity.Title)+"'.",
	))
	s.invalidator.OnCapacityOrVisibilityChange(ctx, req.JobID)

	resp := application.ToResponse(app)
	return &resp, nil
}

// GetApplication retrieves one application. A company opening an unseen
// application implicitly marks it VIEWED; losing that race to another request
// is fine, the read still succeeds.
func (s *ApplicationService) GetApplication(ctx context.Context, authCtx *auth.AuthContext, id kernel.ApplicationID) (*application.ApplicationResponse, error) {
	app, jobEntity, err := s.loadWithJob(ctx, id)
	if err != nil {
		return nil, err
	}

	if authCtx.IsCompany() {
		if !jobEntity.IsOwnedBy(authCtx.CompanyID) {
			return nil, application.ErrNotJobOwner().WithDetail("application_id", id.String())
		}
		if app.Status == application.ApplicationStatusInitial {
			ok, err := s.applicationRepo.UpdateStatusCAS(ctx, app.ID,
				application.ApplicationStatusInitial, application.ApplicationStatusViewed)
			if err != nil {
				logx.Warnf("application: failed to mark %s viewed: %v", app.ID, err)
			} else if ok {
				now := time.Now()
				app.Status = application.ApplicationStatusViewed
				app.StatusChangedAt = &now
				app.UpdatedAt = now
			}
		}
	} else if !app.IsOwnedBy(authCtx.UserID) {
		return nil, application.ErrNotApplicationOwner().WithDetail("application_id", id.String())
	}

	resp := application.ToResponse(app)
	return &resp, nil
}

// ChangeStatus applies a company decision. Counter movement is ordered so
// the approved cap can never be overshot: taking a slot happens before the
// status write, freeing one happens after.
func (s *ApplicationService) ChangeStatus(ctx context.Context, authCtx *auth.AuthContext, id kernel.ApplicationID, req application.ChangeStatusRequest) (*application.ApplicationResponse, error) {
	if !application.ValidStatus(req.Status) {
		return nil, application.ErrInvalidStatus().WithDetail("status", string(req.Status))
	}

	app, jobEntity, err := s.loadWithJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authCtx.IsCompany() || !jobEntity.IsOwnedBy(authCtx.CompanyID) {
		return nil, application.ErrNotJobOwner().WithDetail("application_id", id.String())
	}

	if !app.CanTransitionTo(req.Status) {
		return nil, application.ErrInvalidStatusTransition().
			WithDetail("current_status", app.Status).
			WithDetail("new_status", req.Status)
	}
	if req.Status == app.Status {
		resp := application.ToResponse(app)
		return &resp, nil
	}

	switch {
	case app.EntersApproved(req.Status):
		// Take the slot first. If the status write then loses its race,
		// give the slot back; the winner's state stands.
		if err := s.admission.TransferToApproved(ctx, app.JobID); err != nil {
			return nil, err
		}
		ok, err := s.applicationRepo.UpdateStatusCAS(ctx, app.ID, app.Status, req.Status)
		if err != nil || !ok {
			if terr := s.admission.TransferFromApproved(ctx, app.JobID); terr != nil {
				// The slot is leaked until an operator reconciles counters.
				logx.Errorf("application: compensation failed, job %s approved count overstates by one: %v", app.JobID, terr)
			}
			if err != nil {
				return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
			}
			return nil, application.ErrStatusChanged().WithDetail("application_id", id.String())
		}

	case app.LeavesApproved(req.Status):
		// Status first: only the request that actually moves the row out
		// of APPROVED may free the slot.
		ok, err := s.applicationRepo.UpdateStatusCAS(ctx, app.ID, application.ApplicationStatusApproved, req.Status)
		if err != nil {
			return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
		}
		if !ok {
			return nil, application.ErrStatusChanged().WithDetail("application_id", id.String())
		}
		if err := s.admission.TransferFromApproved(ctx, app.JobID); err != nil {
			logx.Errorf("application: job %s approved count overstates by one after demotion of %s: %v", app.JobID, app.ID, err)
		}

	default:
		ok, err := s.applicationRepo.UpdateStatusCAS(ctx, app.ID, app.Status, req.Status)
		if err != nil {
			return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
		}
		if !ok {
			return nil, application.ErrStatusChanged().WithDetail("application_id", id.String())
		}
	}

	previous := app.Status
	now := time.Now()
	app.Status = req.Status
	app.StatusChangedAt = &now
	app.UpdatedAt = now

	s.notifyDecision(ctx, app, jobEntity, previous)
	s.invalidator.OnCapacityOrVisibilityChange(ctx, app.JobID)

	resp := application.ToResponse(app)
	return &resp, nil
}

// DeleteApplication removes an application and returns its slots before
// reporting success. The applicant withdraws their own; the job's owning
// company may remove any application on its job. The stored attachment is
// removed asynchronously.
func (s *ApplicationService) DeleteApplication(ctx context.Context, authCtx *auth.AuthContext, id kernel.ApplicationID) error {
	app, jobEntity, err := s.loadWithJob(ctx, id)
	if err != nil {
		return err
	}
	if authCtx.IsCompany() {
		if !jobEntity.IsOwnedBy(authCtx.CompanyID) {
			return application.ErrNotJobOwner().WithDetail("application_id", id.String())
		}
	} else if !app.IsOwnedBy(authCtx.UserID) {
		return application.ErrNotApplicationOwner().WithDetail("application_id", id.String())
	}

	wasApproved := app.IsApproved()

	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		if e, ok := err.(*errx.Error); ok {
			return e
		}
		return errx.Wrap(err, "failed to delete application", errx.TypeInternal)
	}

	s.release(ctx, app.JobID)
	if wasApproved {
		if err := s.admission.TransferFromApproved(ctx, app.JobID); err != nil {
			logx.Errorf("application: job %s approved count overstates by one after withdrawal of %s: %v", app.JobID, app.ID, err)
		}
	}

	if !app.ResumePath.IsEmpty() {
		s.enqueue(ctx, dispatch.NewFileCleanupTask(app.ResumePath.String()))
	}
	s.invalidator.OnCapacityOrVisibilityChange(ctx, app.JobID)

	return nil
}

// ListJobApplications retrieves a job's applications for its owning company
func (s *ApplicationService) ListJobApplications(ctx context.Context, authCtx *auth.AuthContext, jobID kernel.JobID, pagination kernel.PaginationOptions) (*application.PaginatedApplicationsResponse, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	if !authCtx.IsCompany() || !jobEntity.IsOwnedBy(authCtx.CompanyID) {
		return nil, application.ErrNotJobOwner().WithDetail("job_id", jobID.String())
	}

	apps, err := s.applicationRepo.ListByJob(ctx, jobID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list job applications", errx.TypeInternal)
	}
	return toPaginatedResponse(apps), nil
}

// ListMyApplications retrieves the calling applicant's applications
func (s *ApplicationService) ListMyApplications(ctx context.Context, authCtx *auth.AuthContext, pagination kernel.PaginationOptions) (*application.PaginatedApplicationsResponse, error) {
	apps, err := s.applicationRepo.ListByApplicant(ctx, authCtx.UserID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}
	return toPaginatedResponse(apps), nil
}

// DownloadResume streams the stored attachment to the job's owning company
// or the applicant themselves.
func (s *ApplicationService) DownloadResume(ctx context.Context, authCtx *auth.AuthContext, id kernel.ApplicationID) (io.ReadCloser, error) {
	app, jobEntity, err := s.loadWithJob(ctx, id)
	if err != nil {
		return nil, err
	}

	if authCtx.IsCompany() {
		if !jobEntity.IsOwnedBy(authCtx.CompanyID) {
			return nil, application.ErrNotJobOwner().WithDetail("application_id", id.String())
		}
	} else if !app.IsOwnedBy(authCtx.UserID) {
		return nil, application.ErrNotApplicationOwner().WithDetail("application_id", id.String())
	}

	if app.ResumePath.IsEmpty() {
		return nil, application.ErrApplicationNotFound().WithDetail("reason", "no resume attached")
	}

	return s.fileSystem.ReadFileStream(ctx, app.ResumePath.String())
}

func (s *ApplicationService) loadWithJob(ctx context.Context, id kernel.ApplicationID) (*application.Application, *job.Job, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	jobEntity, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, nil, job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
	}

	return app, jobEntity, nil
}

func (s *ApplicationService) notifyDecision(ctx context.Context, app *application.Application, jobEntity *job.Job, previous application.ApplicationStatus) {
	var title, body string
	switch app.Status {
	case application.ApplicationStatusApproved:
		title = "Application approved"
		body = "Your application for '" + string(jobEntity.Title) + "' was approved."
	case application.ApplicationStatusRejected:
		title = "Application update"
		body = "Your application for '" + string(jobEntity.Title) + "' was not selected."
	default:
		if previous == application.ApplicationStatusApproved {
			title = "Application update"
			body = "Your approval for '" + string(jobEntity.Title) + "' was withdrawn."
		} else {
			return
		}
	}

	s.enqueue(ctx, dispatch.NewNotificationTask(app.ApplicantID, title, body))
	s.enqueue(ctx, dispatch.NewEmailTask(app.ApplicantEmail, title, body))
}

func (s *ApplicationService) release(ctx context.Context, jobID kernel.JobID) {
	if err := s.admission.Release(ctx, jobID); err != nil {
		logx.Errorf("application: job %s application count overstates by one, release failed: %v", jobID, err)
	}
}

func (s *ApplicationService) enqueue(ctx context.Context, task *dispatch.Task) {
	if err := s.enqueuer.Enqueue(ctx, task); err != nil {
		logx.Errorf("application: failed to enqueue %s task: %v", task.Kind, err)
	}
}

func toPaginatedResponse(apps *kernel.Paginated[application.Application]) *application.PaginatedApplicationsResponse {
	responses := make([]application.ApplicationResponse, 0, len(apps.Items))
	for i := range apps.Items {
		responses = append(responses, application.ToResponse(&apps.Items[i]))
	}
	return &application.PaginatedApplicationsResponse{
		Items: responses,
		Page:  apps.Page,
		Empty: apps.Empty,
	}
}
