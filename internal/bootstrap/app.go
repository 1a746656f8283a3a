package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"hiring-backend/internal/account"
	"hiring-backend/internal/analytics"
	googleauth "hiring-backend/internal/auth"
	"hiring-backend/internal/candidates"
	"hiring-backend/internal/extract"
	"hiring-backend/internal/interviews"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/matching"
	"hiring-backend/internal/queue"
	"hiring-backend/internal/services/health"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/server"
	"hiring-backend/internal/shared/storage/db"
	"hiring-backend/internal/shared/storage/object"
	localstore "hiring-backend/internal/shared/storage/object/local"
	s3store "hiring-backend/internal/shared/storage/object/s3"
	"hiring-backend/internal/uploads"
	"hiring-backend/internal/usage"
	"hiring-backend/internal/users"
)

// App holds the wired dependency graph for one process: repositories
// picked by DATABASE_URL, services on top of them, handlers on top of
// those, and the router mounting the handlers.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	Queue          queue.Client
	UploadsPresign *s3.PresignClient

	CandidatesRepo candidates.CandidatesRepo
	JobsRepo       jobs.JobsRepo
	InterviewsRepo interviews.InterviewsRepo
	ScoresRepo     matching.ScoresRepo
	UsersRepo      users.Repo

	CandidatesService *candidates.Service
	JobsService       *jobs.Service
	MatchService      *matching.Service
	InterviewsService *interviews.Service
	AnalyticsService  *analytics.Service
	UsageService      *usage.Service
	UsersService      *users.Service
	AccountService    *account.Service
	HealthService     *health.Service
	ParseProcessor    ParseProcessor

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

// ParseProcessor allows callers to override resume parse processing for tests.
type ParseProcessor interface {
	ProcessParse(ctx context.Context, ownerID, candidateID string) error
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	presign, err := buildUploadsPresign(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:         cfg,
		Router:         nil,
		DB:             sqlDB,
		Store:          store,
		Queue:          queueClient,
		UploadsPresign: presign,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.HealthService,
		CandidateHandler: app.CandidateHandler,
		JobHandler:       app.JobHandler,
		MatchHandler:     app.MatchHandler,
		InterviewHandler: app.InterviewHandler,
		AnalyticsHandler: app.AnalyticsHandler,
		UploadHandler:    app.UploadHandler,
		UsageHandler:     app.UsageHandler,
		UserHandler:      app.UserHandler,
		AccountHandler:   app.AccountHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueDriver {
	case "sqs":
		return queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
	case "amqp":
		return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return nil, nil
	}
}

// buildUploadsPresign prepares the client behind the presign endpoint.
// It exists only when resumes live in S3; on the local store the
// endpoint reports unsupported.
func buildUploadsPresign(ctx context.Context, cfg config.Config) (*s3.PresignClient, error) {
	if cfg.ObjectStoreType != "s3" || strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewPresignClient(s3.NewFromConfig(awsCfg)), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	var candRepo candidates.CandidatesRepo
	var jobRepo jobs.JobsRepo
	var ivRepo interviews.InterviewsRepo
	var scoreRepo matching.ScoresRepo
	var userRepo users.Repo

	if app.DB != nil {
		candRepo = &candidates.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		ivRepo = &interviews.PGRepo{DB: app.DB}
		scoreRepo = &matching.PGScores{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		candRepo = candidates.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		ivRepo = interviews.NewMemoryRepo()
		scoreRepo = matching.NewMemoryScores()
		userRepo = users.NewMemoryRepo()
	}

	def := usage.Defaults{Limit: cfg.MonthlyParseQuota}
	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(app.DB, def)
	} else {
		usageSvc = usage.NewService(def)
	}

	candSvc := &candidates.Service{
		Repo:    candRepo,
		Store:   app.Store,
		Queue:   app.Queue,
		Extract: extract.Text,
		Quota:   usageSvc,
	}

	jobSvc := &jobs.Service{Repo: jobRepo}

	matchSvc := &matching.Service{
		Scores:     scoreRepo,
		Candidates: candRepo,
		Jobs:       jobRepo,
	}

	ivSvc := &interviews.Service{
		Repo:       ivRepo,
		Candidates: candSvc,
		Jobs:       jobRepo,
		LinkBase:   cfg.MeetingLinkBase,
	}

	analyticsSvc := &analytics.Service{
		Candidates: candRepo,
		Jobs:       jobRepo,
		Interviews: ivRepo,
		Scores:     scoreRepo,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		userSvc,
	)

	app.CandidatesRepo = candRepo
	app.JobsRepo = jobRepo
	app.InterviewsRepo = ivRepo
	app.ScoresRepo = scoreRepo
	app.UsersRepo = userRepo
	app.CandidatesService = candSvc
	app.JobsService = jobSvc
	app.MatchService = matchSvc
	app.InterviewsService = ivSvc
	app.AnalyticsService = analyticsSvc
	app.UsageService = usageSvc
	app.UsersService = userSvc
	app.AccountService = account.NewService(candRepo, scoreRepo)
	app.HealthService = &health.Service{
		DB:          app.DB,
		QueueDriver: cfg.QueueDriver,
		StoreType:   cfg.ObjectStoreType,
	}
	app.ParseProcessor = candSvc

	app.CandidateHandler = candidates.NewHandler(candSvc, cfg.MaxUploadBytes)
	app.JobHandler = jobs.NewHandler(jobSvc)
	app.MatchHandler = matching.NewHandler(matchSvc)
	app.InterviewHandler = interviews.NewHandler(ivSvc)
	app.AnalyticsHandler = analytics.NewHandler(analyticsSvc)
	app.UploadHandler = &uploads.Handler{
		Svc:            candSvc,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Presign:        app.UploadsPresign,
		Bucket:         cfg.S3Bucket,
		Prefix:         cfg.S3Prefix,
	}
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UserHandler = users.NewHandler(userSvc)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.GoogleAuth = googleAuthSvc

	if app.CandidateHandler == nil || app.JobHandler == nil || app.UploadHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
