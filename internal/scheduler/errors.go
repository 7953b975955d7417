// Package scheduler implements the duty roster orchestration: shift
// creation and update with conflict checking and compensating
// rollback, vehicle-to-unit resolution, and the "service of the day"
// overlap resolver.  Operations return *OpError values carrying the
// HTTP status they map to, so handlers translate uniformly with
// errors.As.
package scheduler

import "net/http"

// OpError is a scheduler operation failure with its HTTP mapping.
// Message is safe to surface to the caller; the wrapped cause is for
// server-side logs only.
type OpError struct {
	Status  int
	Message string
	cause   error
}

func (e *OpError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *OpError) Unwrap() error { return e.cause }

func validation(msg string) *OpError {
	return &OpError{Status: http.StatusBadRequest, Message: msg}
}

func notFound(msg string) *OpError {
	return &OpError{Status: http.StatusNotFound, Message: msg}
}

func conflict(msg string) *OpError {
	return &OpError{Status: http.StatusConflict, Message: msg}
}

func internal(msg string, cause error) *OpError {
	return &OpError{Status: http.StatusInternalServerError, Message: msg, cause: cause}
}
