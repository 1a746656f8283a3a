package matching

import "errors"

var (
	// ErrNilSkills rejects nil skill collections. A nil list is a caller
	// bug (an unparsed candidate or malformed job) and must not be
	// silently scored as empty.
	ErrNilSkills = errors.New("skill list must be non-nil")

	ErrNotFound = errors.New("not found")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
