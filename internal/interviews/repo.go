package interviews

import (
	"context"
	"time"
)

// ListFilter narrows List results. A zero StartAfter means no lower
// bound on the start time.
type ListFilter struct {
	CandidateID string
	JobID       string
	Interviewer string
	Status      string
	StartAfter  time.Time
	Limit       int
	Offset      int
}

// InterviewsRepo defines persistence for interviews. Reads are
// owner-scoped.
type InterviewsRepo interface {
	Create(ctx context.Context, iv Interview) error
	GetByID(ctx context.Context, ownerID, id string) (Interview, error)

	// List returns interviews ordered by start time, soonest first.
	List(ctx context.Context, ownerID string, f ListFilter) ([]Interview, error)

	Update(ctx context.Context, iv Interview) error

	// ScheduledBetween returns an interviewer's Scheduled interviews
	// whose start time falls inside [from, to]. Cancelled and completed
	// interviews do not block a slot.
	ScheduledBetween(ctx context.Context, ownerID, interviewer string, from, to time.Time) ([]Interview, error)

	Count(ctx context.Context, ownerID string) (int, error)

	// Recent returns the latest-created interviews, newest first.
	Recent(ctx context.Context, ownerID string, limit int) ([]Interview, error)
}
