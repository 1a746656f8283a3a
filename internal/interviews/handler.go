package interviews

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews", h.schedule)
	rg.GET("/interviews", h.list)
	rg.GET("/interviews/slots", h.slots)
	rg.GET("/interviews/:id", h.get)
	rg.PUT("/interviews/:id", h.reschedule)
	rg.POST("/interviews/:id/cancel", h.cancel)
	rg.POST("/interviews/:id/complete", h.complete)
}

func (h *Handler) schedule(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	iv, err := h.Svc.Schedule(c.Request.Context(), userID, ScheduleInput{
		CandidateID:     req.CandidateID,
		JobID:           req.JobID,
		Interviewer:     req.Interviewer,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Location:        req.Location,
		Notes:           req.Notes,
	})
	if err != nil {
		h.respondError(c, err, "failed to schedule interview")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(iv))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	f := ListFilter{
		CandidateID: c.Query("candidate_id"),
		JobID:       c.Query("job_id"),
		Interviewer: c.Query("interviewer"),
		Status:      c.Query("status"),
		Limit:       intQuery(c, "limit", 50),
		Offset:      intQuery(c, "offset", 0),
	}
	if c.Query("upcoming") == "true" {
		f.Status = StatusScheduled
		f.StartAfter = time.Now().UTC()
	}

	ivs, err := h.Svc.List(c.Request.Context(), userID, f)
	if err != nil {
		h.respondError(c, err, "failed to list interviews")
		return
	}

	resp := make([]InterviewResponse, 0, len(ivs))
	for _, iv := range ivs {
		resp = append(resp, toResponse(iv))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	iv, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch interview")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(iv))
}

func (h *Handler) slots(c *gin.Context) {
	dateRaw := c.Query("date")
	date, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "date must be YYYY-MM-DD", nil)
		return
	}
	if raw := c.Query("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil || duration < 15 || duration > 480 {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "duration must be 15-480 minutes", nil)
			return
		}
	}

	slots := AvailableSlots(date, time.Now())
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.Format(time.RFC3339))
	}
	respond.JSON(c, http.StatusOK, SlotsResponse{Date: dateRaw, Slots: out})
}

func (h *Handler) reschedule(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	iv, err := h.Svc.Reschedule(c.Request.Context(), userID, c.Param("id"), req.ScheduledAt)
	if err != nil {
		h.respondError(c, err, "failed to reschedule interview")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(iv))
}

func (h *Handler) cancel(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	iv, err := h.Svc.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to cancel interview")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(iv))
}

func (h *Handler) complete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
			return
		}
	}

	iv, err := h.Svc.Complete(c.Request.Context(), userID, c.Param("id"), req.Notes)
	if err != nil {
		h.respondError(c, err, "failed to complete interview")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(iv))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "interview not found", nil)
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "candidate not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidState):
		respond.Error(c, http.StatusConflict, ErrorCodeConflict, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
