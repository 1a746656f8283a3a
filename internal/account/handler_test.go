package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/matching"
)

func newClaimRouter(t *testing.T, svc *Service, asGuest bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if asGuest {
			c.Set("userId", "guest:22222222-2222-2222-2222-222222222222")
			c.Set("isGuest", true)
		} else {
			c.Set("userId", "user-1")
			c.Set("isGuest", false)
		}
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesData(t *testing.T) {
	candRepo := candidates.NewMemoryRepo()
	scores := matching.NewMemoryScores()
	svc := NewService(candRepo, scores)
	router := newClaimRouter(t, svc, false)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	ctx := context.Background()

	for _, id := range []string{"cand-1", "cand-2"} {
		cand := candidates.Candidate{
			ID:        id,
			OwnerID:   guestUserID,
			Name:      "Guest Candidate",
			Email:     id + "@example.com",
			Status:    candidates.StatusApplied,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := candRepo.Create(ctx, cand); err != nil {
			t.Fatalf("create candidate: %v", err)
		}
	}
	score := matching.Score{
		ID:          "score-1",
		OwnerID:     guestUserID,
		CandidateID: "cand-1",
		JobID:       "job-1",
		Score:       80,
	}
	if err := scores.Save(ctx, score); err != nil {
		t.Fatalf("save score: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result ClaimResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MigratedCandidates != 2 {
		t.Fatalf("expected 2 migrated candidates, got %d", result.MigratedCandidates)
	}
	if result.MigratedScores != 1 {
		t.Fatalf("expected 1 migrated score, got %d", result.MigratedScores)
	}

	// The records now belong to the authenticated user.
	moved, err := candRepo.List(ctx, "user-1", candidates.ListFilter{})
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected 2 candidates under user-1, got %d", len(moved))
	}
	left, err := candRepo.List(ctx, guestUserID, candidates.ListFilter{})
	if err != nil {
		t.Fatalf("list guest candidates: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no candidates left under guest, got %d", len(left))
	}
	avg, err := scores.AverageScore(ctx, "user-1")
	if err != nil {
		t.Fatalf("average score: %v", err)
	}
	if avg != 80 {
		t.Fatalf("expected moved score average 80, got %v", avg)
	}
}

func TestClaimGuestIsIdempotent(t *testing.T) {
	candRepo := candidates.NewMemoryRepo()
	svc := NewService(candRepo, matching.NewMemoryScores())
	router := newClaimRouter(t, svc, false)

	guestID := "11111111-1111-1111-1111-111111111111"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result ClaimResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MigratedCandidates != 0 || result.MigratedScores != 0 {
		t.Fatalf("expected empty claim, got %+v", result)
	}
}

func TestClaimGuestValidation(t *testing.T) {
	svc := NewService(candidates.NewMemoryRepo(), matching.NewMemoryScores())
	router := newClaimRouter(t, svc, false)

	// Missing header.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing header, got %d", rec.Code)
	}

	// Header that is not a UUID.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "not-a-uuid")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid guest id, got %d", rec.Code)
	}
}

func TestClaimGuestRequiresLogin(t *testing.T) {
	svc := NewService(candidates.NewMemoryRepo(), matching.NewMemoryScores())
	router := newClaimRouter(t, svc, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "11111111-1111-1111-1111-111111111111")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest caller, got %d", rec.Code)
	}
}
