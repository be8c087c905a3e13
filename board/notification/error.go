package notification

import (
	"net/http"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("NOTIFICATION")

// Error codes
var (
	CodeNotificationNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Notification not found")
)

// Helper functions
func ErrNotificationNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotificationNotFound)
}
