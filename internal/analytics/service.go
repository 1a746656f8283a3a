package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/interviews"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/matching"
	"hiring-backend/internal/parsing"
)

const (
	recentCandidates = 5
	recentInterviews = 3
	activityFeedMax  = 10
	topSkillsMax     = 10
)

// Service assembles the dashboard from an owner's candidates, jobs,
// interviews and stored match scores. It holds no state of its own.
// Taxonomy restores canonical skill spellings in the top-skills panel;
// left zero-valued it falls back to the parser's default vocabulary.
type Service struct {
	Candidates candidates.CandidatesRepo
	Jobs       jobs.JobsRepo
	Interviews interviews.InterviewsRepo
	Scores     matching.ScoresRepo
	Taxonomy   parsing.Config
}

var defaultTaxonomy = parsing.DefaultConfig()

// Dashboard gathers every panel concurrently; the sources are
// independent reads, so one slow query does not serialize the rest.
func (s *Service) Dashboard(ctx context.Context, ownerID string) (Dashboard, error) {
	var (
		pipeline       map[string]int
		jobCounts      map[string]int
		interviewTotal int
		newestCands    []candidates.Candidate
		newestIvs      []interviews.Interview
		skillCounts    map[string]int
		avgScore       float64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if pipeline, err = s.Candidates.CountByStatus(ctx, ownerID); err != nil {
			return fmt.Errorf("candidate pipeline: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobCounts, err = s.Jobs.CountByStatus(ctx, ownerID); err != nil {
			return fmt.Errorf("job counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if interviewTotal, err = s.Interviews.Count(ctx, ownerID); err != nil {
			return fmt.Errorf("interview count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		newestCands, err = s.Candidates.List(ctx, ownerID, candidates.ListFilter{Limit: recentCandidates})
		if err != nil {
			return fmt.Errorf("recent candidates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if newestIvs, err = s.Interviews.Recent(ctx, ownerID, recentInterviews); err != nil {
			return fmt.Errorf("recent interviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if skillCounts, err = s.Candidates.SkillCounts(ctx, ownerID); err != nil {
			return fmt.Errorf("skill counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if avgScore, err = s.Scores.AverageScore(ctx, ownerID); err != nil {
			return fmt.Errorf("average match score: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	candidateTotal := 0
	for _, n := range pipeline {
		candidateTotal += n
	}
	jobTotal := 0
	for _, n := range jobCounts {
		jobTotal += n
	}

	return Dashboard{
		Totals: Totals{
			Jobs:       jobTotal,
			Candidates: candidateTotal,
			Interviews: interviewTotal,
		},
		PipelineStats:  pipeline,
		RecentActivity: buildActivity(newestCands, newestIvs),
		TopSkills:      s.topSkills(skillCounts),
		SuccessMetrics: SuccessMetrics{
			InterviewRate: interviewRate(interviewTotal, candidateTotal),
			ActiveJobs:    jobCounts[jobs.StatusActive],
			AvgMatchScore: round1(avgScore),
		},
	}, nil
}

// buildActivity merges the newest candidates and interviews into one
// feed, newest first, capped at activityFeedMax entries.
func buildActivity(cands []candidates.Candidate, ivs []interviews.Interview) []Activity {
	feed := make([]Activity, 0, len(cands)+len(ivs))
	for _, cand := range cands {
		feed = append(feed, Activity{
			Type:      ActivityCandidateApplied,
			Message:   "New candidate: " + cand.Name,
			Timestamp: cand.CreatedAt,
		})
	}
	for _, iv := range ivs {
		feed = append(feed, Activity{
			Type:      ActivityInterviewScheduled,
			Message:   fmt.Sprintf("Interview scheduled: %s for %s", iv.CandidateName, iv.JobTitle),
			Timestamp: iv.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > activityFeedMax {
		feed = feed[:activityFeedMax]
	}
	return feed
}

// topSkills ranks skill counts descending, breaking ties by name so
// the order is stable across requests. Repos key counts by lowercase
// skill; the taxonomy restores the canonical spelling for display.
func (s *Service) topSkills(counts map[string]int) []SkillCount {
	taxonomy := s.Taxonomy
	if len(taxonomy.Skills) == 0 {
		taxonomy = defaultTaxonomy
	}
	out := make([]SkillCount, 0, len(counts))
	for skill, n := range counts {
		if canonical, ok := taxonomy.CanonicalSkill(skill); ok {
			skill = canonical
		}
		out = append(out, SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > topSkillsMax {
		out = out[:topSkillsMax]
	}
	return out
}

func interviewRate(interviewTotal, candidateTotal int) float64 {
	if candidateTotal < 1 {
		candidateTotal = 1
	}
	return round1(float64(interviewTotal) / float64(candidateTotal) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
