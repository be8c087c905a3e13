package admission

import (
	"net/http"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("ADMISSION")

// Error codes
var (
	CodeJobExpired        = ErrRegistry.Register("JOB_EXPIRED", errx.TypeBusiness, http.StatusConflict, "Job is no longer accepting applications")
	CodeApplicationsFull  = ErrRegistry.Register("APPLICATIONS_FULL", errx.TypeBusiness, http.StatusConflict, "Job has reached its application limit")
	CodeApprovedFull      = ErrRegistry.Register("APPROVED_FULL", errx.TypeBusiness, http.StatusConflict, "Job has reached its approved candidate limit")
	CodeReservationDenied = ErrRegistry.Register("RESERVATION_DENIED", errx.TypeBusiness, http.StatusConflict, "Application slot could not be reserved")
)

// Helper functions
func ErrJobExpired() *errx.Error {
	return ErrRegistry.New(CodeJobExpired)
}

func ErrApplicationsFull() *errx.Error {
	return ErrRegistry.New(CodeApplicationsFull)
}

func ErrApprovedFull() *errx.Error {
	return ErrRegistry.New(CodeApprovedFull)
}

func ErrReservationDenied() *errx.Error {
	return ErrRegistry.New(CodeReservationDenied)
}
