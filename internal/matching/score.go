package matching

import (
	"context"
	"time"
)

// Score is one persisted candidate-job match computation. The store
// keeps a single row per pair; recomputing replaces it and bumps
// RecalculatedAt.
type Score struct {
	ID             string
	OwnerID        string
	CandidateID    string
	JobID          string
	Score          int
	Matched        []string
	Missing        []string
	RecalculatedAt time.Time
}

// ScoresRepo defines persistence for computed match scores.
type ScoresRepo interface {
	// Save stores the latest score for a candidate-job pair, replacing
	// any previous computation.
	Save(ctx context.Context, score Score) error

	// AverageScore returns the mean of an owner's stored scores, 0 when
	// none exist.
	AverageScore(ctx context.Context, ownerID string) (float64, error)

	// ReassignOwner moves every score from one owner to another and
	// reports how many rows moved.
	ReassignOwner(ctx context.Context, fromOwnerID, toOwnerID string) (int64, error)
}
