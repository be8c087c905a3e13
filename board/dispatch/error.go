package dispatch

import (
	"net/http"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("DISPATCH")

// Error codes
var (
	CodeUnknownTaskKind   = ErrRegistry.Register("UNKNOWN_TASK_KIND", errx.TypeInternal, http.StatusInternalServerError, "No handler registered for task kind")
	CodeInvalidPayload    = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeInternal, http.StatusInternalServerError, "Task payload could not be decoded")
	CodeDeadLetterMissing = ErrRegistry.Register("DEAD_LETTER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Dead letter not found")
)

// Helper functions
func ErrUnknownTaskKind() *errx.Error {
	return ErrRegistry.New(CodeUnknownTaskKind)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}

func ErrDeadLetterMissing() *errx.Error {
	return ErrRegistry.New(CodeDeadLetterMissing)
}
