package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MatchResult partitions a job's skills by whether the candidate covers
// them. Score is the covered percentage, 0-100; Matched and Missing
// keep the job's spelling in the job's order for determinism.
type MatchResult struct {
	Score   int      `json:"score"`
	Matched []string `json:"matchedSkills"`
	Missing []string `json:"missingSkills"`
}

// Match scores a candidate skill set against a job skill set.
//
// Comparison is exact case-insensitive equality on taxonomy strings;
// no fuzzy or synonym matching. Duplicates and blank entries collapse
// before scoring. A job with no listed skills scores 0 by policy - it
// cannot be "matched". Both lists must be non-nil; empty is legal.
//
// Pure function over its inputs: no side effects, safe to call
// concurrently and repeatedly.
func Match(candidateSkills, jobSkills []string) (MatchResult, error) {
	if candidateSkills == nil || jobSkills == nil {
		return MatchResult{}, ErrNilSkills
	}

	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		if key := normalize(s); key != "" {
			have[key] = struct{}{}
		}
	}

	matched := make([]string, 0, len(jobSkills))
	missing := make([]string, 0, len(jobSkills))
	seen := make(map[string]struct{}, len(jobSkills))
	for _, skill := range jobSkills {
		key := normalize(skill)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	total := len(matched) + len(missing)
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(len(matched)) / float64(total)))
	}
	return MatchResult{Score: score, Matched: matched, Missing: missing}, nil
}

// JobSkills names one job's skill requirements for ranking.
type JobSkills struct {
	ID     string
	Skills []string
}

// JobScore is one ranked entry from RankJobs.
type JobScore struct {
	JobID string `json:"jobId"`
	MatchResult
}

// RankJobs scores a candidate against every given job, best fit first.
// Ties keep the input job order; callers must not assume any secondary
// ordering beyond that.
func RankJobs(candidateSkills []string, jobs []JobSkills) ([]JobScore, error) {
	if candidateSkills == nil {
		return nil, ErrNilSkills
	}
	out := make([]JobScore, 0, len(jobs))
	for _, job := range jobs {
		res, err := Match(candidateSkills, job.Skills)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.ID, err)
		}
		out = append(out, JobScore{JobID: job.ID, MatchResult: res})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// CandidateSkills names one candidate's skill set for reverse ranking.
type CandidateSkills struct {
	ID     string
	Skills []string
}

// CandidateScore is one ranked entry from RankCandidates.
type CandidateScore struct {
	CandidateID string `json:"candidateId"`
	MatchResult
}

// RankCandidates scores every candidate against one job, best fit
// first, ties in input order. Candidates with nil skills fail the whole
// call; filter unparsed candidates out before ranking.
func RankCandidates(candidates []CandidateSkills, jobSkills []string) ([]CandidateScore, error) {
	if jobSkills == nil {
		return nil, ErrNilSkills
	}
	out := make([]CandidateScore, 0, len(candidates))
	for _, c := range candidates {
		res, err := Match(c.Skills, jobSkills)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		out = append(out, CandidateScore{CandidateID: c.ID, MatchResult: res})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
