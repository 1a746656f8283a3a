package matching

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/jobs"
)

func newTestRouter(t *testing.T) (*gin.Engine, *candidates.MemoryRepo, *jobs.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, candRepo, jobsRepo := newMatchService()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router, candRepo, jobsRepo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestComputeMatchOverHTTP(t *testing.T) {
	router, candRepo, jobsRepo := newTestRouter(t)
	now := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "Dana Whitfield", []string{"Python", "AWS"}, now)
	jobID := seedJob(t, jobsRepo, "user-1", "Backend Engineer", jobs.StatusActive,
		[]string{"Python", "AWS", "Docker"}, now)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/match",
		`{"candidateId":"`+candID+`","jobId":"`+jobID+`"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var match MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		t.Fatalf("decode match response: %v", err)
	}
	if match.Score != 67 {
		t.Fatalf("score = %d, want 67", match.Score)
	}
	if len(match.MatchedSkills) != 2 || len(match.MissingSkills) != 1 {
		t.Fatalf("matched/missing = %v / %v", match.MatchedSkills, match.MissingSkills)
	}
	if len(match.Gaps) != 1 || match.Gaps[0].Category != "Cloud & DevOps" {
		t.Fatalf("gaps = %+v", match.Gaps)
	}
	if match.RecalculatedAt.IsZero() {
		t.Fatalf("recalculatedAt missing")
	}
}

func TestComputeMatchErrors(t *testing.T) {
	router, candRepo, jobsRepo := newTestRouter(t)
	now := time.Now().UTC()

	parsed := seedCandidate(t, candRepo, "user-1", "Parsed", []string{"Python"}, now)
	unparsed := seedCandidate(t, candRepo, "user-1", "Unparsed", nil, now)
	jobID := seedJob(t, jobsRepo, "user-1", "Eng", jobs.StatusActive, []string{"Python"}, now)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/match", `{"candidateId":"`+parsed+`"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing jobId: expected 400, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/match",
		`{"candidateId":"nope","jobId":"`+jobID+`"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown candidate: expected 404, got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != ErrorCodeNotFound {
		t.Fatalf("error code = %q", code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/match",
		`{"candidateId":"`+unparsed+`","jobId":"`+jobID+`"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unparsed candidate: expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := decodeErrorCode(t, resp); code != ErrorCodeValidation {
		t.Fatalf("error code = %q, want %q", code, ErrorCodeValidation)
	}
}

func TestRankedListingsOverHTTP(t *testing.T) {
	router, candRepo, jobsRepo := newTestRouter(t)
	base := time.Now().UTC()

	candID := seedCandidate(t, candRepo, "user-1", "Dana", []string{"Python"}, base)
	seedCandidate(t, candRepo, "user-1", "Riley", []string{"Python", "Go"}, base.Add(-time.Minute))
	jobID := seedJob(t, jobsRepo, "user-1", "Python Engineer", jobs.StatusActive,
		[]string{"Python", "Go"}, base)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/candidates/"+candID+"/matches", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("candidate matches: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var jobMatches []JobMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jobMatches); err != nil {
		t.Fatalf("decode job matches: %v", err)
	}
	if len(jobMatches) != 1 || jobMatches[0].Score != 50 || jobMatches[0].Title != "Python Engineer" {
		t.Fatalf("job matches = %+v", jobMatches)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs/"+jobID+"/matches", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("job matches: expected 200, got %d", resp.Code)
	}
	var candMatches []CandidateMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&candMatches); err != nil {
		t.Fatalf("decode candidate matches: %v", err)
	}
	if len(candMatches) != 2 {
		t.Fatalf("candidate matches = %d, want 2", len(candMatches))
	}
	if candMatches[0].Name != "Riley" || candMatches[0].Score != 100 {
		t.Fatalf("top candidate = %+v", candMatches[0])
	}
	if candMatches[1].Name != "Dana" || candMatches[1].Score != 50 {
		t.Fatalf("second candidate = %+v", candMatches[1])
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs/nope/matches", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown job: expected 404, got %d", resp.Code)
	}
}
