package jobs

import "context"

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// JobsRepo defines persistence for job postings. Reads are owner-scoped.
type JobsRepo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, ownerID, id string) (Job, error)
	List(ctx context.Context, ownerID string, f ListFilter) ([]Job, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, ownerID, id string) error

	CountByStatus(ctx context.Context, ownerID string) (map[string]int, error)
}
