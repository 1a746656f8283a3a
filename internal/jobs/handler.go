package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
	rg.POST("/jobs/:id/close", h.close)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	job, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:           req.Title,
		Department:      req.Department,
		Location:        req.Location,
		Description:     req.Description,
		Skills:          req.Skills,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		Status:          req.Status,
	})
	if err != nil {
		h.respondError(c, err, "failed to create job")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(job))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	f := ListFilter{
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	jobs, err := h.Svc.List(c.Request.Context(), userID, f)
	if err != nil {
		h.respondError(c, err, "failed to list jobs")
		return
	}

	resp := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, toResponse(job))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch job")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(job))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	job, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Title:           req.Title,
		Department:      req.Department,
		Location:        req.Location,
		Description:     req.Description,
		Skills:          req.Skills,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		Status:          req.Status,
	})
	if err != nil {
		h.respondError(c, err, "failed to update job")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(job))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete job")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) close(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Close(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to close job")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(job))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
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
