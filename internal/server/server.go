// Package server exposes the coaching operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"careercoach/internal/ai"
	"careercoach/internal/career"
	"careercoach/internal/jobs"
	"careercoach/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// unavailableMessage is the uniform client-facing text for provider chain
// exhaustion. Provider-specific details stay in the logs.
const unavailableMessage = "AI service temporarily unavailable, please retry"

// Server wires the HTTP surface to the domain services.
type Server struct {
	engine *gin.Engine
	store  *store.Store
	coach  *career.Service
	gen    career.Generator
	board  *jobs.BoardClient
	logger *zap.Logger
	http   *http.Server
}

// Config holds the server dependencies.
type Config struct {
	Address string
	Store   *store.Store
	Coach   *career.Service
	// Generator is the head of the invocation chain, used directly by
	// the endpoints that bypass the coaching service (job rating).
	Generator career.Generator
	Board     *jobs.BoardClient
	Logger    *zap.Logger
	// RequestsPerSecond bounds the whole API; zero disables limiting.
	RequestsPerSecond float64
}

// New builds the server and registers all routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(cfg.Logger))
	if cfg.RequestsPerSecond > 0 {
		engine.Use(rateLimit(cfg.RequestsPerSecond))
	}

	s := &Server{
		engine: engine,
		store:  cfg.Store,
		coach:  cfg.Coach,
		gen:    cfg.Generator,
		board:  cfg.Board,
		logger: cfg.Logger,
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1")

	v1.POST("/resumes", s.handleResumeUpload)
	v1.GET("/resumes", s.handleResumeList)
	v1.GET("/resumes/:id", s.handleResumeGet)
	v1.DELETE("/resumes/:id", s.handleResumeDelete)
	v1.POST("/resumes/:id/optimize", s.handleResumeOptimize)
	v1.POST("/resumes/:id/analyze", s.handleResumeAnalyze)

	v1.POST("/roadmaps", s.handleRoadmapGenerate)
	v1.GET("/roadmaps/:id", s.handleRoadmapGet)
	v1.POST("/roadmaps/:id/adjust", s.handleRoadmapAdjust)
	v1.POST("/roadmaps/:id/chat", s.handleRoadmapChat)

	v1.POST("/assessments", s.handleAssessmentGenerate)
	v1.GET("/assessments/:id", s.handleAssessmentGet)
	v1.POST("/assessments/:id/evaluate", s.handleAssessmentEvaluate)

	v1.POST("/interviews", s.handleInterviewStart)
	v1.POST("/interviews/:id/turn", s.handleInterviewTurn)
	v1.POST("/interviews/:id/summary", s.handleInterviewSummary)

	v1.POST("/jobs/match", s.handleJobsMatch)

	v1.POST("/mail/draft", s.handleMailDraft)

	v1.POST("/portfolios", s.handlePortfolioCreate)
	v1.GET("/portfolios/:id", s.handlePortfolioGet)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("address", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors onto HTTP statuses. The terminal AI
// signal always becomes the same 503 regardless of which endpoint hit it.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
