package matching

import "time"

type matchRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	JobID       string `json:"jobId" binding:"required"`
}

// MatchResponse is the outward shape of one persisted match.
type MatchResponse struct {
	CandidateID    string    `json:"candidateId"`
	JobID          string    `json:"jobId"`
	Score          int       `json:"score"`
	MatchedSkills  []string  `json:"matchedSkills"`
	MissingSkills  []string  `json:"missingSkills"`
	Gaps           []Gap     `json:"gaps,omitempty"`
	RecalculatedAt time.Time `json:"recalculatedAt"`
}

func toMatchResponse(detail ScoreDetail) MatchResponse {
	return MatchResponse{
		CandidateID:    detail.CandidateID,
		JobID:          detail.JobID,
		Score:          detail.Result.Score,
		MatchedSkills:  detail.Result.Matched,
		MissingSkills:  detail.Result.Missing,
		Gaps:           detail.Gaps,
		RecalculatedAt: detail.RecalculatedAt,
	}
}

// JobMatchResponse is one entry in a candidate's job ranking.
type JobMatchResponse struct {
	JobID         string   `json:"jobId"`
	Title         string   `json:"title"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Gaps          []Gap    `json:"gaps,omitempty"`
}

func toJobMatchResponse(m JobMatch) JobMatchResponse {
	return JobMatchResponse{
		JobID:         m.JobID,
		Title:         m.Title,
		Score:         m.Result.Score,
		MatchedSkills: m.Result.Matched,
		MissingSkills: m.Result.Missing,
		Gaps:          m.Gaps,
	}
}

// CandidateMatchResponse is one entry in a job's candidate ranking.
type CandidateMatchResponse struct {
	CandidateID   string   `json:"candidateId"`
	Name          string   `json:"name"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Gaps          []Gap    `json:"gaps,omitempty"`
}

func toCandidateMatchResponse(m CandidateMatch) CandidateMatchResponse {
	return CandidateMatchResponse{
		CandidateID:   m.CandidateID,
		Name:          m.Name,
		Score:         m.Result.Score,
		MatchedSkills: m.Result.Matched,
		MissingSkills: m.Result.Missing,
		Gaps:          m.Gaps,
	}
}
