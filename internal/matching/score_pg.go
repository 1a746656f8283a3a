package matching

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGScores implements ScoresRepo using Postgres.
type PGScores struct {
	DB *sql.DB
}

// Save upserts the latest score for a candidate-job pair.
func (r *PGScores) Save(ctx context.Context, score Score) error {
	const query = `
INSERT INTO match_scores (
    id, owner_id, candidate_id, job_id, score,
    matched_json, missing_json, recalculated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (owner_id, candidate_id, job_id) DO UPDATE SET
    score = EXCLUDED.score,
    matched_json = EXCLUDED.matched_json,
    missing_json = EXCLUDED.missing_json,
    recalculated_at = EXCLUDED.recalculated_at`

	matched, err := marshalSkillList(score.Matched)
	if err != nil {
		return err
	}
	missing, err := marshalSkillList(score.Missing)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		score.ID,
		score.OwnerID,
		score.CandidateID,
		score.JobID,
		score.Score,
		matched,
		missing,
		score.RecalculatedAt,
	)
	return err
}

// AverageScore returns the mean stored score for an owner, 0 when none.
func (r *PGScores) AverageScore(ctx context.Context, ownerID string) (float64, error) {
	const query = `SELECT COALESCE(AVG(score), 0) FROM match_scores WHERE owner_id = $1`

	var avg float64
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

// ReassignOwner moves every stored score from one owner to another.
func (r *PGScores) ReassignOwner(ctx context.Context, fromOwnerID, toOwnerID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE match_scores SET owner_id = $2 WHERE owner_id = $1`,
		fromOwnerID, toOwnerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ ScoresRepo = (*PGScores)(nil)

func marshalSkillList(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skill list: %w", err)
	}
	return data, nil
}
