package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/matching"
)

// Service migrates guest-owned records to an authenticated account.
type Service struct {
	Candidates candidates.CandidatesRepo
	Scores     matching.ScoresRepo
}

// ClaimResult reports how many records moved during a guest claim.
type ClaimResult struct {
	MigratedCandidates int `json:"migratedCandidates"`
	MigratedScores     int `json:"migratedScores"`
}

func NewService(candRepo candidates.CandidatesRepo, scores matching.ScoresRepo) *Service {
	return &Service{Candidates: candRepo, Scores: scores}
}

// ClaimGuest reassigns every candidate and match score owned by the
// guest id to the authenticated user. On Postgres both updates run in
// one transaction so a partial claim never persists.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if candPG, ok := s.Candidates.(*candidates.PGRepo); ok && candPG != nil && candPG.DB != nil {
		if _, ok := s.Scores.(*matching.PGScores); ok {
			return claimWithTx(ctx, candPG.DB, guestUserID, authedUserID)
		}
	}

	candCount, err := s.Candidates.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	scoreCount, err := s.Scores.ReassignOwner(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedCandidates: candCount, MigratedScores: int(scoreCount)}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	candRes, err := tx.ExecContext(ctx, `UPDATE candidates SET owner_id = $1 WHERE owner_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	candCount, _ := candRes.RowsAffected()

	scoreRes, err := tx.ExecContext(ctx, `UPDATE match_scores SET owner_id = $1 WHERE owner_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	scoreCount, _ := scoreRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedCandidates: int(candCount), MigratedScores: int(scoreCount)}, nil
}
