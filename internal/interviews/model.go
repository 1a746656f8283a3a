package interviews

import "time"

// Interview lifecycle statuses.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Interview formats.
const (
	TypePhone  = "phone"
	TypeVideo  = "video"
	TypeOnsite = "onsite"
)

// DefaultDurationMinutes applies when a booking names no duration.
const DefaultDurationMinutes = 60

// Interview is one scheduled conversation between an interviewer and a
// candidate for a job. CandidateName and JobTitle are denormalized at
// booking time so listings and activity feeds render without joins.
type Interview struct {
	ID              string
	OwnerID         string
	CandidateID     string
	JobID           string
	CandidateName   string
	JobTitle        string
	Interviewer     string
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Location        string
	MeetingLink     string
	Status          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatus reports whether s is a known interview status.
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// ValidType reports whether t is a known interview format.
func ValidType(t string) bool {
	return t == TypePhone || t == TypeVideo || t == TypeOnsite
}
