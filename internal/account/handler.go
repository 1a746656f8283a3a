package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/shared/telemetry"
)

// Handler exposes the guest-claim endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

// claimGuest moves records created under an anonymous guest id to the
// authenticated caller. The guest id arrives in the X-Guest-Id header,
// same as the anonymous requests that created the data.
func (h *Handler) claimGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "service unavailable", nil)
		return
	}
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return
	}

	authedUserID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if authedUserID == "" {
		respond.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "login required", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
	if guestID == "" {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing X-Guest-Id header", []map[string]string{
			{"field": "X-Guest-Id", "issue": "required"},
		})
		return
	}
	if _, err := uuid.Parse(guestID); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid guest id", []map[string]string{
			{"field": "X-Guest-Id", "issue": "invalid"},
		})
		return
	}

	guestUserID := "guest:" + guestID
	result, err := h.Svc.ClaimGuest(c.Request.Context(), guestUserID, authedUserID)
	if err != nil {
		telemetry.Error("account.claim_guest_failed", map[string]any{
			"user_id": authedUserID,
			"error":   err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to claim guest data", nil)
		return
	}
	telemetry.Info("account.claim_guest", map[string]any{
		"user_id":    authedUserID,
		"candidates": result.MigratedCandidates,
		"scores":     result.MigratedScores,
	})
	respond.JSON(c, http.StatusOK, result)
}
