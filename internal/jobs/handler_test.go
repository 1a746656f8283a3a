package jobs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{Repo: NewMemoryRepo()}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
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

func TestJobCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/jobs",
		`{"title":"Backend Engineer","department":"Platform","skills":["python","AWS"],"salaryRange":"$120k-$150k"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.JobID == "" || created.Status != StatusActive {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if len(created.Skills) != 2 || created.Skills[0] != "Python" || created.Skills[1] != "AWS" {
		t.Fatalf("skills not canonicalized: %v", created.Skills)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs/"+created.JobID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPut, "/api/v1/jobs/"+created.JobID,
		`{"location":"Remote","skills":["go"]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Location != "Remote" || updated.Title != "Backend Engineer" {
		t.Fatalf("partial update drifted: %+v", updated)
	}
	if len(updated.Skills) != 1 || updated.Skills[0] != "Go" {
		t.Fatalf("skills = %v, want [Go]", updated.Skills)
	}

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/jobs/"+created.JobID, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs/"+created.JobID, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != ErrorCodeNotFound {
		t.Fatalf("error code = %q, want %q", code, ErrorCodeNotFound)
	}
}

func TestCreateJobValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"department":"Platform"}`},
		{"unknown status", `{"title":"Eng","status":"Archived"}`},
		{"unknown skill", `{"title":"Eng","skills":["Underwater Basket Weaving"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, router, http.MethodPost, "/api/v1/jobs", tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if code := decodeErrorCode(t, resp); code != ErrorCodeValidation {
				t.Fatalf("error code = %q, want %q", code, ErrorCodeValidation)
			}
		})
	}
}

func TestJobListAndClose(t *testing.T) {
	router := newTestRouter(t)

	ids := make([]string, 0, 3)
	for _, title := range []string{"First", "Second", "Third"} {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/jobs", `{"title":"`+title+`"}`)
		if resp.Code != http.StatusCreated {
			t.Fatalf("create %s: got %d", title, resp.Code)
		}
		var created JobResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids = append(ids, created.JobID)
	}

	resp := doJSON(t, router, http.MethodPost, "/api/v1/jobs/"+ids[1]+"/close", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var closed JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&closed); err != nil {
		t.Fatalf("decode close response: %v", err)
	}
	if closed.Status != StatusClosed {
		t.Fatalf("status = %q, want %q", closed.Status, StatusClosed)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs?status=Active", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var listed []JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("active jobs = %d, want 2", len(listed))
	}
	for _, job := range listed {
		if job.Title == "Second" {
			t.Fatalf("closed job leaked into active list")
		}
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs?status=Bogus", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bogus status filter: expected 400, got %d", resp.Code)
	}
}
