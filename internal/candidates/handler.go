package candidates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive maxUpload falls back
// to the 10MB default.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUpload}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:id", h.get)
	rg.PATCH("/candidates/:id", h.update)
	rg.DELETE("/candidates/:id", h.delete)
	rg.PUT("/candidates/:id/status", h.updateStatus)
	rg.GET("/candidates/:id/history", h.history)
	rg.POST("/candidates/:id/resume", h.uploadResume)
	rg.POST("/candidates/:id/reparse", h.reparse)
	rg.GET("/candidates/:id/profile", h.profile)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	cand, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Status:   req.Status,
	})
	if err != nil {
		h.respondError(c, err, "failed to create candidate")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(cand))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	f := ListFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	cands, err := h.Svc.List(c.Request.Context(), userID, f)
	if err != nil {
		h.respondError(c, err, "failed to list candidates")
		return
	}

	resp := make([]CandidateResponse, 0, len(cands))
	for _, cand := range cands {
		resp = append(resp, toResponse(cand))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	cand, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch candidate")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(cand))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	cand, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		h.respondError(c, err, "failed to update candidate")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(cand))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete candidate")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateStatus(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	before, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to update status")
		return
	}

	cand, err := h.Svc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.respondError(c, err, "failed to update status")
		return
	}
	c.Set("candidateId", cand.ID)
	c.Set("statusTransition", before.Status+"->"+cand.Status)
	respond.JSON(c, http.StatusOK, toResponse(cand))
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	events, err := h.Svc.StatusHistory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch status history")
		return
	}

	resp := make([]StatusEventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, toEventResponse(ev))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) uploadResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	requestID := middleware.RequestIDFromContext(c)
	cand, err := h.Svc.AttachResume(c.Request.Context(), userID, c.Param("id"), fileHeader.Filename, requestID, file)
	if err != nil {
		h.respondError(c, err, "failed to upload resume")
		return
	}
	c.Set("candidateId", cand.ID)
	respond.JSON(c, http.StatusAccepted, toResponse(cand))
}

func (h *Handler) reparse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	requestID := middleware.RequestIDFromContext(c)
	cand, err := h.Svc.Reparse(c.Request.Context(), userID, c.Param("id"), requestID)
	if err != nil {
		h.respondError(c, err, "failed to reparse resume")
		return
	}
	c.Set("candidateId", cand.ID)
	respond.JSON(c, http.StatusAccepted, toResponse(cand))
}

func (h *Handler) profile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.Profile(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch profile")
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "candidate not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusConflict, ErrorCodeConflict, err.Error(), nil)
	case errors.Is(err, ErrQuotaExceeded):
		respond.Error(c, http.StatusTooManyRequests, ErrorCodeQuota, "monthly parse quota exceeded", nil)
	case errors.Is(err, ErrNotParsed):
		respond.Error(c, http.StatusConflict, ErrorCodeParse, "resume not parsed yet", nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusConflict, ErrorCodeParse, "no resume attached", nil)
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
