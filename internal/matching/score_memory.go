package matching

import (
	"context"
	"sync"
)

type pairKey struct {
	candidateID string
	jobID       string
}

// MemoryScores is an in-memory implementation of ScoresRepo.
type MemoryScores struct {
	mu   sync.RWMutex
	data map[string]map[pairKey]Score // ownerID -> pair -> latest score
}

// NewMemoryScores constructs a MemoryScores.
func NewMemoryScores() *MemoryScores {
	return &MemoryScores{data: make(map[string]map[pairKey]Score)}
}

// Save stores the latest score for a pair, replacing any previous one.
func (r *MemoryScores) Save(ctx context.Context, score Score) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[score.OwnerID]
	if owned == nil {
		owned = make(map[pairKey]Score)
		r.data[score.OwnerID] = owned
	}
	owned[pairKey{score.CandidateID, score.JobID}] = score
	return nil
}

// AverageScore returns the mean stored score for an owner, 0 when none.
func (r *MemoryScores) AverageScore(ctx context.Context, ownerID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned := r.data[ownerID]
	if len(owned) == 0 {
		return 0, nil
	}
	total := 0
	for _, score := range owned {
		total += score.Score
	}
	return float64(total) / float64(len(owned)), nil
}

// ReassignOwner moves every stored score from one owner to another.
// Candidate IDs never repeat across owners, so moved pairs cannot
// collide with existing ones.
func (r *MemoryScores) ReassignOwner(ctx context.Context, fromOwnerID, toOwnerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := r.data[fromOwnerID]
	if len(moved) == 0 {
		return 0, nil
	}
	owned := r.data[toOwnerID]
	if owned == nil {
		owned = make(map[pairKey]Score)
		r.data[toOwnerID] = owned
	}
	for key, score := range moved {
		score.OwnerID = toOwnerID
		owned[key] = score
	}
	delete(r.data, fromOwnerID)
	return int64(len(moved)), nil
}

var _ ScoresRepo = (*MemoryScores)(nil)
