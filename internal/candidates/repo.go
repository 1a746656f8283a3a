package candidates

import "context"

// ListFilter narrows and pages List results. Query matches name and
// email, case-insensitively.
type ListFilter struct {
	Status string
	Query  string
	Limit  int
	Offset int
}

// CandidatesRepo defines persistence for candidates and their status
// history. Reads are owner-scoped; a candidate is never visible to a
// user who does not own it.
type CandidatesRepo interface {
	Create(ctx context.Context, cand Candidate) error
	GetByID(ctx context.Context, ownerID, id string) (Candidate, error)
	List(ctx context.Context, ownerID string, f ListFilter) ([]Candidate, error)
	Update(ctx context.Context, cand Candidate) error
	Delete(ctx context.Context, ownerID, id string) error

	AppendStatusEvent(ctx context.Context, ev StatusEvent) error
	ListStatusEvents(ctx context.Context, candidateID string) ([]StatusEvent, error)

	CountByStatus(ctx context.Context, ownerID string) (map[string]int, error)
	SkillCounts(ctx context.Context, ownerID string) (map[string]int, error)

	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
