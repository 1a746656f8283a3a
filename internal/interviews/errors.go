package interviews

import "errors"

var (
	ErrNotFound     = errors.New("interview not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrSlotTaken    = errors.New("interviewer is not available")
	ErrInvalidState = errors.New("interview state does not allow this")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeConflict   = "CONFLICT"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
