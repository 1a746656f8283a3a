package interviews

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of InterviewsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Interview // ownerID -> interviews
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Interview)}
}

// Create stores a new interview for its owner.
func (r *MemoryRepo) Create(ctx context.Context, iv Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[iv.OwnerID] = append(r.data[iv.OwnerID], iv)
	return nil
}

// GetByID returns an interview by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, iv := range r.data[ownerID] {
		if iv.ID == id {
			return iv, nil
		}
	}
	return Interview{}, ErrNotFound
}

// List returns interviews for an owner ordered by start time, soonest
// first, honoring filter and paging.
func (r *MemoryRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit < 0 {
		f.Limit = 0
	}

	r.mu.RLock()
	owned := r.data[ownerID]
	r.mu.RUnlock()

	ivs := make([]Interview, 0, len(owned))
	for _, iv := range owned {
		if f.CandidateID != "" && iv.CandidateID != f.CandidateID {
			continue
		}
		if f.JobID != "" && iv.JobID != f.JobID {
			continue
		}
		if f.Interviewer != "" && iv.Interviewer != f.Interviewer {
			continue
		}
		if f.Status != "" && iv.Status != f.Status {
			continue
		}
		if !f.StartAfter.IsZero() && iv.ScheduledAt.Before(f.StartAfter) {
			continue
		}
		ivs = append(ivs, iv)
	}
	sort.SliceStable(ivs, func(i, j int) bool {
		return ivs[i].ScheduledAt.Before(ivs[j].ScheduledAt)
	})

	if f.Offset >= len(ivs) {
		return []Interview{}, nil
	}
	end := len(ivs)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return ivs[f.Offset:end], nil
}

// Update replaces a stored interview, matching on owner and ID.
func (r *MemoryRepo) Update(ctx context.Context, iv Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[iv.OwnerID]
	for i := range owned {
		if owned[i].ID == iv.ID {
			owned[i] = iv
			r.data[iv.OwnerID] = owned
			return nil
		}
	}
	return ErrNotFound
}

// ScheduledBetween returns an interviewer's Scheduled interviews whose
// start time falls inside [from, to], bounds inclusive.
func (r *MemoryRepo) ScheduledBetween(ctx context.Context, ownerID, interviewer string, from, to time.Time) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Interview
	for _, iv := range r.data[ownerID] {
		if iv.Interviewer != interviewer || iv.Status != StatusScheduled {
			continue
		}
		if iv.ScheduledAt.Before(from) || iv.ScheduledAt.After(to) {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

// Count returns how many interviews an owner has.
func (r *MemoryRepo) Count(ctx context.Context, ownerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data[ownerID]), nil
}

// Recent returns the latest-created interviews, newest first.
func (r *MemoryRepo) Recent(ctx context.Context, ownerID string, limit int) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Interview{}, nil
	}
	r.mu.RLock()
	owned := r.data[ownerID]
	r.mu.RUnlock()

	ivs := make([]Interview, len(owned))
	copy(ivs, owned)
	sort.SliceStable(ivs, func(i, j int) bool {
		return ivs[i].CreatedAt.After(ivs[j].CreatedAt)
	})
	if limit < len(ivs) {
		ivs = ivs[:limit]
	}
	return ivs, nil
}

var _ InterviewsRepo = (*MemoryRepo)(nil)
