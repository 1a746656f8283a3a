package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/parsing"
)

func newMatchService() (*Service, *candidates.MemoryRepo, *jobs.MemoryRepo) {
	candRepo := candidates.NewMemoryRepo()
	jobsRepo := jobs.NewMemoryRepo()
	svc := &Service{
		Scores:     NewMemoryScores(),
		Candidates: candRepo,
		Jobs:       jobsRepo,
	}
	return svc, candRepo, jobsRepo
}

// seedCandidate stores a candidate directly; nil skills models a resume
// that never parsed.
func seedCandidate(t *testing.T, repo *candidates.MemoryRepo, ownerID, name string, skills []string, createdAt time.Time) string {
	t.Helper()
	cand := candidates.Candidate{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Status:    candidates.StatusApplied,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if skills != nil {
		cand.Profile = &parsing.Result{Profile: parsing.Profile{Skills: skills}}
		cand.ParseStatus = candidates.ParseStatusCompleted
	}
	if err := repo.Create(context.Background(), cand); err != nil {
		t.Fatalf("seed candidate %s: %v", name, err)
	}
	return cand.ID
}

func seedJob(t *testing.T, repo *jobs.MemoryRepo, ownerID, title, status string, skills []string, createdAt time.Time) string {
	t.Helper()
	job := jobs.Job{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Skills:    skills,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("seed job %s: %v", title, err)
	}
	return job.ID
}

func TestComputePersistsLatestScore(t *testing.T) {
	svc, candRepo, jobsRepo := newMatchService()
	ctx := context.Background()
	now := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "Dana Whitfield", []string{"Python", "AWS"}, now)
	jobID := seedJob(t, jobsRepo, "user-1", "Backend Engineer", jobs.StatusActive,
		[]string{"Python", "AWS", "Docker"}, now)

	detail, err := svc.Compute(ctx, "user-1", candID, jobID)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if detail.Result.Score != 67 {
		t.Fatalf("score = %d, want 67", detail.Result.Score)
	}
	if !reflect.DeepEqual(detail.Result.Matched, []string{"Python", "AWS"}) {
		t.Fatalf("matched = %v", detail.Result.Matched)
	}
	if !reflect.DeepEqual(detail.Result.Missing, []string{"Docker"}) {
		t.Fatalf("missing = %v", detail.Result.Missing)
	}
	if len(detail.Gaps) != 1 || detail.Gaps[0].Category != "Cloud & DevOps" {
		t.Fatalf("gaps = %+v", detail.Gaps)
	}
	if detail.RecalculatedAt.IsZero() {
		t.Fatalf("recalculatedAt not set")
	}

	// Recomputing after the job changes replaces the stored score for
	// the pair instead of appending a second row.
	job, err := jobsRepo.GetByID(ctx, "user-1", jobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	job.Skills = []string{"Python"}
	if err := jobsRepo.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}
	detail, err = svc.Compute(ctx, "user-1", candID, jobID)
	if err != nil {
		t.Fatalf("Compute again: %v", err)
	}
	if detail.Result.Score != 100 {
		t.Fatalf("score = %d, want 100", detail.Result.Score)
	}

	avg, err := svc.Scores.AverageScore(ctx, "user-1")
	if err != nil {
		t.Fatalf("AverageScore: %v", err)
	}
	if avg != 100 {
		t.Fatalf("average = %v, want 100 (latest score only)", avg)
	}
}

func TestComputeUnparsedCandidate(t *testing.T) {
	svc, candRepo, jobsRepo := newMatchService()
	ctx := context.Background()
	now := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "No Resume", nil, now)
	jobID := seedJob(t, jobsRepo, "user-1", "Backend Engineer", jobs.StatusActive, []string{"Python"}, now)

	if _, err := svc.Compute(ctx, "user-1", candID, jobID); !errors.Is(err, ErrNilSkills) {
		t.Fatalf("err = %v, want ErrNilSkills", err)
	}
	if avg, _ := svc.Scores.AverageScore(ctx, "user-1"); avg != 0 {
		t.Fatalf("failed compute persisted a score, avg = %v", avg)
	}
}

func TestComputeMissingRecords(t *testing.T) {
	svc, candRepo, jobsRepo := newMatchService()
	ctx := context.Background()
	now := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "Dana", []string{"Python"}, now)
	jobID := seedJob(t, jobsRepo, "user-1", "Eng", jobs.StatusActive, []string{"Python"}, now)

	if _, err := svc.Compute(ctx, "user-1", "missing", jobID); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("missing candidate err = %v, want candidates.ErrNotFound", err)
	}
	if _, err := svc.Compute(ctx, "user-1", candID, "missing"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("missing job err = %v, want jobs.ErrNotFound", err)
	}
	if _, err := svc.Compute(ctx, "user-2", candID, jobID); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("wrong owner err = %v, want candidates.ErrNotFound", err)
	}
}

func TestMatchesForCandidateRanksActiveJobs(t *testing.T) {
	svc, candRepo, jobsRepo := newMatchService()
	ctx := context.Background()
	base := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "Dana", []string{"Python"}, base)
	perfect := seedJob(t, jobsRepo, "user-1", "Python Engineer", jobs.StatusActive,
		[]string{"Python"}, base.Add(-2*time.Minute))
	seedJob(t, jobsRepo, "user-1", "Go Engineer", jobs.StatusActive,
		[]string{"Go"}, base.Add(-1*time.Minute))
	seedJob(t, jobsRepo, "user-1", "Closed Python Role", jobs.StatusClosed,
		[]string{"Python"}, base)

	matches, err := svc.MatchesForCandidate(ctx, "user-1", candID)
	if err != nil {
		t.Fatalf("MatchesForCandidate: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (closed job excluded)", len(matches))
	}
	if matches[0].JobID != perfect || matches[0].Result.Score != 100 {
		t.Fatalf("top match = %+v, want perfect fit first", matches[0])
	}
	if matches[0].Title != "Python Engineer" {
		t.Fatalf("title = %q", matches[0].Title)
	}
	if matches[1].Result.Score != 0 {
		t.Fatalf("second score = %d, want 0", matches[1].Result.Score)
	}

	// An unparsed candidate cannot be ranked.
	unparsed := seedCandidate(t, candRepo, "user-1", "No Resume", nil, base)
	if _, err := svc.MatchesForCandidate(ctx, "user-1", unparsed); !errors.Is(err, ErrNilSkills) {
		t.Fatalf("unparsed err = %v, want ErrNilSkills", err)
	}
}

func TestMatchesForJobSkipsUnparsed(t *testing.T) {
	svc, candRepo, jobsRepo := newMatchService()
	ctx := context.Background()
	base := time.Now().UTC()

	jobID := seedJob(t, jobsRepo, "user-1", "Backend Engineer", jobs.StatusActive,
		[]string{"Python", "Go"}, base)
	full := seedCandidate(t, candRepo, "user-1", "Full Fit",
		[]string{"Python", "Go"}, base.Add(-3*time.Minute))
	half := seedCandidate(t, candRepo, "user-1", "Half Fit",
		[]string{"Python"}, base.Add(-2*time.Minute))
	seedCandidate(t, candRepo, "user-1", "Never Parsed", nil, base.Add(-1*time.Minute))

	matches, err := svc.MatchesForJob(ctx, "user-1", jobID)
	if err != nil {
		t.Fatalf("MatchesForJob: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (unparsed skipped)", len(matches))
	}
	if matches[0].CandidateID != full || matches[0].Result.Score != 100 {
		t.Fatalf("top match = %+v", matches[0])
	}
	if matches[1].CandidateID != half || matches[1].Result.Score != 50 {
		t.Fatalf("second match = %+v", matches[1])
	}
	if matches[0].Name != "Full Fit" || matches[1].Name != "Half Fit" {
		t.Fatalf("names = %q, %q", matches[0].Name, matches[1].Name)
	}
}

func TestScoresReassignOwner(t *testing.T) {
	store := NewMemoryScores()
	ctx := context.Background()

	for i, pair := range []struct{ cand, job string }{
		{"cand-1", "job-1"},
		{"cand-2", "job-1"},
	} {
		err := store.Save(ctx, Score{
			ID:             uuid.NewString(),
			OwnerID:        "guest-1",
			CandidateID:    pair.cand,
			JobID:          pair.job,
			Score:          (i + 1) * 40,
			RecalculatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	moved, err := store.ReassignOwner(ctx, "guest-1", "user-9")
	if err != nil {
		t.Fatalf("ReassignOwner: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if avg, _ := store.AverageScore(ctx, "guest-1"); avg != 0 {
		t.Fatalf("guest still has scores, avg = %v", avg)
	}
	if avg, _ := store.AverageScore(ctx, "user-9"); avg != 60 {
		t.Fatalf("user avg = %v, want 60", avg)
	}
}
