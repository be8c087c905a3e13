package application

import (
	"net/http"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeAlreadyApplied           = ErrRegistry.Register("ALREADY_APPLIED", errx.TypeConflict, http.StatusConflict, "Applicant has already applied to this job")
	CodeInvalidStatusTransition  = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusBadRequest, "Invalid status transition")
	CodeInvalidStatus            = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown application status")
	CodeStatusChanged            = ErrRegistry.Register("STATUS_CHANGED", errx.TypeConflict, http.StatusConflict, "Application status was changed by another request")
	CodeNotApplicationOwner      = ErrRegistry.Register("NOT_OWNER", errx.TypeAuthorization, http.StatusForbidden, "Application belongs to another applicant")
	CodeNotJobOwner              = ErrRegistry.Register("NOT_JOB_OWNER", errx.TypeAuthorization, http.StatusForbidden, "Application belongs to another company's job")
	CodeJobNotAccepting          = ErrRegistry.Register("JOB_NOT_ACCEPTING", errx.TypeBusiness, http.StatusConflict, "Job is not accepting applications")
	CodeInvalidEmail             = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid contact email")
	CodeInsufficientPermissions  = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrAlreadyApplied() *errx.Error {
	return ErrRegistry.New(CodeAlreadyApplied)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrStatusChanged() *errx.Error {
	return ErrRegistry.New(CodeStatusChanged)
}

func ErrNotApplicationOwner() *errx.Error {
	return ErrRegistry.New(CodeNotApplicationOwner)
}

func ErrNotJobOwner() *errx.Error {
	return ErrRegistry.New(CodeNotJobOwner)
}

func ErrJobNotAccepting() *errx.Error {
	return ErrRegistry.New(CodeJobNotAccepting)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}
