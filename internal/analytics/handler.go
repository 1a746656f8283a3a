package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/shared/telemetry"
)

const ErrorCodeInternal = "INTERNAL_ERROR"

// Handler exposes the dashboard endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analytics routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics/dashboard", h.dashboard)
}

func (h *Handler) dashboard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	dash, err := h.Svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		telemetry.Error("analytics.dashboard_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to build dashboard", nil)
		return
	}
	respond.JSON(c, http.StatusOK, dash)
}
