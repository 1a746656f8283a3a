package candidates

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of CandidatesRepo.
type MemoryRepo struct {
	mu     sync.RWMutex
	data   map[string][]Candidate // ownerID -> candidates
	events map[string][]StatusEvent
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:   make(map[string][]Candidate),
		events: make(map[string][]StatusEvent),
	}
}

// Create stores a new candidate for its owner.
func (r *MemoryRepo) Create(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[cand.OwnerID] = append(r.data[cand.OwnerID], cand)
	return nil
}

// GetByID returns a candidate by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cand := range r.data[ownerID] {
		if cand.ID == id {
			return cand, nil
		}
	}
	return Candidate{}, ErrNotFound
}

// List returns candidates for an owner, newest first, honoring filter
// and paging.
func (r *MemoryRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Candidate, error) {
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

	query := strings.ToLower(strings.TrimSpace(f.Query))
	cands := make([]Candidate, 0, len(owned))
	for _, cand := range owned {
		if f.Status != "" && cand.Status != f.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(cand.Name), query) &&
			!strings.Contains(strings.ToLower(cand.Email), query) {
			continue
		}
		cands = append(cands, cand)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].CreatedAt.After(cands[j].CreatedAt)
	})

	if f.Offset >= len(cands) {
		return []Candidate{}, nil
	}
	end := len(cands)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return cands[f.Offset:end], nil
}

// Update replaces a stored candidate, matching on owner and ID.
func (r *MemoryRepo) Update(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[cand.OwnerID]
	for i := range owned {
		if owned[i].ID == cand.ID {
			owned[i] = cand
			r.data[cand.OwnerID] = owned
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a candidate and its status history.
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
			delete(r.events, id)
			return nil
		}
	}
	return ErrNotFound
}

// AppendStatusEvent records one pipeline transition.
func (r *MemoryRepo) AppendStatusEvent(ctx context.Context, ev StatusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.CandidateID] = append(r.events[ev.CandidateID], ev)
	return nil
}

// ListStatusEvents returns the transitions for a candidate, oldest first.
func (r *MemoryRepo) ListStatusEvents(ctx context.Context, candidateID string) ([]StatusEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	evs := r.events[candidateID]
	out := make([]StatusEvent, len(evs))
	copy(out, evs)
	return out, nil
}

// CountByStatus tallies an owner's candidates per pipeline status.
func (r *MemoryRepo) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, cand := range r.data[ownerID] {
		out[cand.Status]++
	}
	return out, nil
}

// SkillCounts tallies parsed skills across an owner's candidates.
// Skills are counted once per candidate under their lowercase form.
func (r *MemoryRepo) SkillCounts(ctx context.Context, ownerID string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, cand := range r.data[ownerID] {
		if cand.ParseStatus != ParseStatusCompleted || cand.Profile == nil {
			continue
		}
		for _, skill := range cand.Profile.Skills {
			out[strings.ToLower(skill)]++
		}
	}
	return out, nil
}

// ClaimGuest reassigns candidates owned by a guest user to an
// authenticated user and returns how many moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := r.data[guestUserID]
	if len(moved) == 0 {
		return 0, nil
	}
	for i := range moved {
		moved[i].OwnerID = authedUserID
	}
	r.data[authedUserID] = append(r.data[authedUserID], moved...)
	delete(r.data, guestUserID)
	return len(moved), nil
}

var _ CandidatesRepo = (*MemoryRepo)(nil)
