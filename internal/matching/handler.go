package matching

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches match routes to the router group. The ranked
// listings hang off the candidate and job resources they rank.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match", h.compute)
	rg.GET("/candidates/:id/matches", h.candidateMatches)
	rg.GET("/jobs/:id/matches", h.jobMatches)
}

func (h *Handler) compute(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "candidateId and jobId are required", nil)
		return
	}

	detail, err := h.Svc.Compute(c.Request.Context(), userID, req.CandidateID, req.JobID)
	if err != nil {
		h.respondError(c, err, "failed to compute match")
		return
	}
	respond.JSON(c, http.StatusOK, toMatchResponse(detail))
}

func (h *Handler) candidateMatches(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	matches, err := h.Svc.MatchesForCandidate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to rank jobs")
		return
	}

	resp := make([]JobMatchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, toJobMatchResponse(m))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) jobMatches(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	matches, err := h.Svc.MatchesForJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to rank candidates")
		return
	}

	resp := make([]CandidateMatchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, toCandidateMatchResponse(m))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "candidate not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "job not found", nil)
	case errors.Is(err, ErrNilSkills):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeValidation, "candidate resume has not been parsed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}
