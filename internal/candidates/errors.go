package candidates

import "errors"

var (
	ErrNotFound      = errors.New("candidate not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrNotParsed     = errors.New("resume not parsed")
	ErrNoResume      = errors.New("no resume attached")
	ErrQuotaExceeded = errors.New("monthly parse quota exceeded")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeConflict   = "CONFLICT"
	ErrorCodeQuota      = "QUOTA_EXCEEDED"
	ErrorCodeParse      = "PARSE_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
