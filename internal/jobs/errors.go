package jobs

import "errors"

// Sentinel errors returned by the jobs service and repositories.
var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error codes for API responses.
const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
