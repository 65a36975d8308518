// Package httpapi exposes the recruiting platform over HTTP.
package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/auth"
	"recruiting-platform/internal/cep"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/dashboard"
	"recruiting-platform/internal/jobs"
	"recruiting-platform/internal/models"
	"recruiting-platform/internal/pipeline"
	"recruiting-platform/internal/search"
	"recruiting-platform/internal/store/postgres"
)

// AuthService handles accounts and sessions.
type AuthService interface {
	Signup(ctx context.Context, input auth.SignupInput) (*models.Profile, string, error)
	Login(ctx context.Context, email, password string) (*auth.Session, string, error)
	Logout(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (*auth.Session, error)
}

// ProfileStore is the account persistence surface used by handlers.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetResumeKey(ctx context.Context, id, key string) error
	SearchTalents(ctx context.Context, term string) ([]*models.Profile, error)
}

// JobService manages postings.
type JobService interface {
	Create(ctx context.Context, input jobs.Input) (*models.Job, error)
	Update(ctx context.Context, id string, input jobs.Input) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Job, error)
	ListOpen(ctx context.Context) ([]*models.Job, error)
	ListAll(ctx context.Context) ([]*models.Job, error)
}

// CategoryStore lists posting categories.
type CategoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
}

// ApplicationService runs the apply flow.
type ApplicationService interface {
	Apply(ctx context.Context, candidateID, jobID string, answers map[string]string) (*models.Application, error)
	ListForCandidate(ctx context.Context, candidateID string) ([]*models.Application, error)
}

// ApplicationReader feeds the kanban board and admin lookups.
type ApplicationReader interface {
	ListByJob(ctx context.Context, jobID string) ([]*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
}

// PipelineService moves applications between stages.
type PipelineService interface {
	UpdateStatus(ctx context.Context, applicationID, newStage string) (*pipeline.Result, error)
}

// SearchService answers board queries. May be absent.
type SearchService interface {
	SearchJobs(ctx context.Context, params search.Params) ([]*models.Job, error)
}

// ResumeService stores resume files.
type ResumeService interface {
	Upload(ctx context.Context, candidateID, contentType string, body io.Reader) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DashboardService serves the admin overview.
type DashboardService interface {
	GetStats(ctx context.Context) (*dashboard.Stats, error)
	Invalidate(ctx context.Context)
}

// CEPClient resolves postal codes.
type CEPClient interface {
	Lookup(ctx context.Context, cepCode string) (*cep.Address, error)
}

// Deps bundles everything the server needs.
type Deps struct {
	Auth           AuthService
	Profiles       ProfileStore
	Jobs           JobService
	Categories     CategoryStore
	Applications   ApplicationService
	Board          ApplicationReader
	Pipeline       PipelineService
	Search         SearchService
	Resumes        ResumeService
	Dashboard      DashboardService
	CEP            CEPClient
	AllowedOrigins []string
	Logger         logger.Logger
}

// Server wires handlers to services.
type Server struct {
	auth         AuthService
	profiles     ProfileStore
	jobs         JobService
	categories   CategoryStore
	applications ApplicationService
	board        ApplicationReader
	pipeline     PipelineService
	search       SearchService
	resumes      ResumeService
	dashboard    DashboardService
	cep          CEPClient
	origins      []string
	errors       *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewServer creates the HTTP server.
func NewServer(deps Deps) *Server {
	return &Server{
		auth:         deps.Auth,
		profiles:     deps.Profiles,
		jobs:         deps.Jobs,
		categories:   deps.Categories,
		applications: deps.Applications,
		board:        deps.Board,
		pipeline:     deps.Pipeline,
		search:       deps.Search,
		resumes:      deps.Resumes,
		dashboard:    deps.Dashboard,
		cep:          deps.CEP,
		origins:      deps.AllowedOrigins,
		errors:       apperrors.NewErrorHandler(deps.Logger),
		logger:       deps.Logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	router.Use(Metrics())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/jobs", s.handleListJobs)
		v1.GET("/jobs/:id", s.handleGetJob)
		v1.GET("/categories", s.handleListCategories)
		v1.GET("/cep/:code", s.handleLookupCEP)

		v1.POST("/auth/signup", s.handleSignup)
		v1.POST("/auth/login", s.handleLogin)
	}

	authenticated := v1.Group("")
	authenticated.Use(s.RequireSession())
	{
		authenticated.POST("/auth/logout", s.handleLogout)
		authenticated.GET("/me", s.handleMe)

		authenticated.GET("/profile", s.handleGetProfile)
		authenticated.PUT("/profile", s.handleUpdateProfile)
		authenticated.POST("/profile/resume", s.handleUploadResume)
		authenticated.GET("/profile/resume", s.handleResumeURL)
		authenticated.DELETE("/profile/resume", s.handleDeleteResume)

		authenticated.POST("/jobs/:id/apply", s.handleApply)
		authenticated.GET("/applications", s.handleMyApplications)
	}

	admin := v1.Group("/admin")
	admin.Use(s.RequireSession(), s.RequireAdmin())
	{
		admin.GET("/jobs", s.handleAdminListJobs)
		admin.POST("/jobs", s.handleCreateJob)
		admin.PUT("/jobs/:id", s.handleUpdateJob)
		admin.DELETE("/jobs/:id", s.handleDeleteJob)
		admin.GET("/jobs/:id/applications", s.handleJobBoard)

		admin.POST("/applications/:id/status", s.handleUpdateStatus)
		admin.GET("/applications/:id/resume", s.handleCandidateResumeURL)

		admin.GET("/talents", s.handleListTalents)
		admin.GET("/dashboard", s.handleDashboard)
	}

	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.origins) > 0 {
		cfg.AllowOrigins = s.origins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = len(s.origins) > 0
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

var _ ApplicationReader = (*postgres.ApplicationStore)(nil)
