package jobs

import "time"

// Job posting statuses.
const (
	StatusActive = "Active"
	StatusClosed = "Closed"
)

// Job is one open (or closed) position. Skills hold taxonomy spellings
// only; free-form skill text is canonicalized or rejected on write, so
// the matcher never sees a spelling it cannot score.
type Job struct {
	ID              string
	OwnerID         string
	Title           string
	Department      string
	Location        string
	Description     string
	Skills          []string
	ExperienceLevel string
	SalaryRange     string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusClosed
}
