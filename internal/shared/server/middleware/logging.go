package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/telemetry"
)

// Logging emits one structured log line per request. Handlers can
// enrich it by setting candidateId, jobId, or statusTransition on the
// gin context.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncHTTPRequest()
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		candidateID, _ := c.Get("candidateId")
		jobID, _ := c.Get("jobId")
		statusTransition := ""
		if raw, ok := c.Get("statusTransition"); ok {
			if s, ok := raw.(string); ok {
				statusTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":        reqID,
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"status":            status,
			"status_transition": statusTransition,
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           userID,
			"candidate_id":      candidateID,
			"job_id":            jobID,
			"is_guest":          isGuest,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
