package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/account"
	"hiring-backend/internal/analytics"
	googleauth "hiring-backend/internal/auth"
	"hiring-backend/internal/candidates"
	"hiring-backend/internal/interviews"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/matching"
	"hiring-backend/internal/services/health"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/uploads"
	"hiring-backend/internal/usage"
	"hiring-backend/internal/users"
)

// RouterDeps carries the wired handlers the router mounts. Health and
// GoogleAuth may be nil; their endpoints then degrade gracefully.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	CandidateHandler *candidates.Handler
	JobHandler       *jobs.Handler
	MatchHandler     *matching.Handler
	InterviewHandler *interviews.Handler
	AnalyticsHandler *analytics.Handler
	UploadHandler    *uploads.Handler
	UsageHandler     *usage.Handler
	UserHandler      *users.Handler
	AccountHandler   *account.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Health and the Google sign-in flow mount before the auth middleware;
// everything else requires a token or guest header and is rate limited.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/health", healthEndpoint(deps.Health))

	api := r.Group("/api/v1")
	api.GET("/health", healthEndpoint(deps.Health))
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	api.Use(
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	deps.CandidateHandler.RegisterRoutes(api)
	deps.JobHandler.RegisterRoutes(api)
	deps.MatchHandler.RegisterRoutes(api)
	deps.InterviewHandler.RegisterRoutes(api)
	deps.AnalyticsHandler.RegisterRoutes(api)
	deps.UploadHandler.RegisterRoutes(api)
	deps.UsageHandler.RegisterRoutes(api)
	deps.UserHandler.RegisterRoutes(api)
	deps.AccountHandler.RegisterRoutes(api)

	if deps.Config.Env == "dev" {
		dev := api.Group("/dev")
		deps.UsageHandler.RegisterDevRoutes(dev)
	}

	return r
}

func healthEndpoint(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := svc.Check(c.Request.Context())
		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, st)
	}
}

// rateLimitConfig throttles per authenticated principal. Candidate
// detail reads get a looser bucket than the rest of the API; the UI
// polls them while a parse is in flight.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			"POLLING": {Rate: cfg.RateLimitRPS * 3, Burst: cfg.RateLimitBurst * 3},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/candidates/:id" {
				return "POLLING"
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
