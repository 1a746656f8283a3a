package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/shared/metrics"
)

// rankLimit caps how many rows a ranking endpoint considers. Both repos
// page newest-first, so rankings cover the most recent records.
const rankLimit = 100

// Service computes and persists match scores across the candidate and
// job domains.
type Service struct {
	Scores     ScoresRepo
	Candidates candidates.CandidatesRepo
	Jobs       jobs.JobsRepo
}

// ScoreDetail is the outcome of one persisted match computation.
type ScoreDetail struct {
	CandidateID    string
	JobID          string
	Result         MatchResult
	Gaps           []Gap
	RecalculatedAt time.Time
}

// Compute scores one candidate against one job, persists the result as
// the pair's latest score, and returns it with a gap summary. A
// candidate whose resume never parsed has nil skills and fails with
// ErrNilSkills instead of scoring zero.
func (s *Service) Compute(ctx context.Context, ownerID, candidateID, jobID string) (ScoreDetail, error) {
	cand, err := s.Candidates.GetByID(ctx, ownerID, candidateID)
	if err != nil {
		return ScoreDetail{}, fmt.Errorf("candidate: %w", err)
	}
	job, err := s.Jobs.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return ScoreDetail{}, fmt.Errorf("job: %w", err)
	}

	result, err := Match(cand.Skills(), job.Skills)
	if err != nil {
		return ScoreDetail{}, err
	}

	now := time.Now().UTC()
	score := Score{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		CandidateID:    candidateID,
		JobID:          jobID,
		Score:          result.Score,
		Matched:        result.Matched,
		Missing:        result.Missing,
		RecalculatedAt: now,
	}
	if err := s.Scores.Save(ctx, score); err != nil {
		return ScoreDetail{}, fmt.Errorf("save score: %w", err)
	}
	metrics.IncMatchComputed()

	return ScoreDetail{
		CandidateID:    candidateID,
		JobID:          jobID,
		Result:         result,
		Gaps:           GapSummary(result.Missing),
		RecalculatedAt: now,
	}, nil
}

// JobMatch is one ranked job for a candidate.
type JobMatch struct {
	JobID  string
	Title  string
	Result MatchResult
	Gaps   []Gap
}

// MatchesForCandidate ranks every active job for one candidate, best
// fit first. Rankings are computed on demand and not persisted.
func (s *Service) MatchesForCandidate(ctx context.Context, ownerID, candidateID string) ([]JobMatch, error) {
	cand, err := s.Candidates.GetByID(ctx, ownerID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	active, err := s.Jobs.List(ctx, ownerID, jobs.ListFilter{Status: jobs.StatusActive, Limit: rankLimit})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	entries := make([]JobSkills, 0, len(active))
	titles := make(map[string]string, len(active))
	for _, job := range active {
		entries = append(entries, JobSkills{ID: job.ID, Skills: job.Skills})
		titles[job.ID] = job.Title
	}

	ranked, err := RankJobs(cand.Skills(), entries)
	if err != nil {
		return nil, err
	}

	out := make([]JobMatch, 0, len(ranked))
	for _, score := range ranked {
		out = append(out, JobMatch{
			JobID:  score.JobID,
			Title:  titles[score.JobID],
			Result: score.MatchResult,
			Gaps:   GapSummary(score.Missing),
		})
	}
	return out, nil
}

// CandidateMatch is one ranked candidate for a job.
type CandidateMatch struct {
	CandidateID string
	Name        string
	Result      MatchResult
	Gaps        []Gap
}

// MatchesForJob ranks an owner's parsed candidates against one job,
// best fit first. Candidates without a parsed skill list are left out
// of the ranking rather than scored as zero.
func (s *Service) MatchesForJob(ctx context.Context, ownerID, jobID string) ([]CandidateMatch, error) {
	job, err := s.Jobs.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}

	cands, err := s.Candidates.List(ctx, ownerID, candidates.ListFilter{Limit: rankLimit})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	entries := make([]CandidateSkills, 0, len(cands))
	names := make(map[string]string, len(cands))
	for _, cand := range cands {
		skills := cand.Skills()
		if skills == nil {
			continue
		}
		entries = append(entries, CandidateSkills{ID: cand.ID, Skills: skills})
		names[cand.ID] = cand.Name
	}

	ranked, err := RankCandidates(entries, job.Skills)
	if err != nil {
		return nil, err
	}

	out := make([]CandidateMatch, 0, len(ranked))
	for _, score := range ranked {
		out = append(out, CandidateMatch{
			CandidateID: score.CandidateID,
			Name:        names[score.CandidateID],
			Result:      score.MatchResult,
			Gaps:        GapSummary(score.Missing),
		})
	}
	return out, nil
}
