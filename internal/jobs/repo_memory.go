package jobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of JobsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Job // ownerID -> jobs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Job)}
}

// Create stores a new job for its owner.
func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.OwnerID] = append(r.data[job.OwnerID], job)
	return nil
}

// GetByID returns a job by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, job := range r.data[ownerID] {
		if job.ID == id {
			return job, nil
		}
	}
	return Job{}, ErrNotFound
}

// List returns an owner's jobs, newest first, honoring filter and paging.
func (r *MemoryRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Job, error) {
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

	jobs := make([]Job, 0, len(owned))
	for _, job := range owned {
		if f.Status != "" && job.Status != f.Status {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if f.Offset >= len(jobs) {
		return []Job{}, nil
	}
	end := len(jobs)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return jobs[f.Offset:end], nil
}

// Update replaces a stored job, matching on owner and ID.
func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[job.OwnerID]
	for i := range owned {
		if owned[i].ID == job.ID {
			owned[i] = job
			r.data[job.OwnerID] = owned
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a job.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[ownerID]
	for i := range owned {
		if owned[i].ID == id {
			r.data[ownerID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// CountByStatus tallies an owner's jobs per status.
func (r *MemoryRepo) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, job := range r.data[ownerID] {
		out[job.Status]++
	}
	return out, nil
}

var _ JobsRepo = (*MemoryRepo)(nil)
