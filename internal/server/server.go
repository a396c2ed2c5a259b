package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/metrics"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
)

// Assessor runs one document assessment
type Assessor interface {
	Assess(ctx context.Context, req pipeline.Request) (*model.Report, error)
}

// Server is the HTTP boundary in front of the engine
type Server struct {
	engine       Assessor
	capabilities pipeline.Capabilities
	config       model.ServerConfig
	defaults     model.EngineConfig
	logger       *zap.Logger
	router       *gin.Engine
}

// analyzeRequest is the body of POST /api/analyze. Unset flags take the
// configured defaults.
type analyzeRequest struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	AIAnalysis  *bool  `json:"ai_analysis"`
	FindSources *bool  `json:"find_sources"`
	RealTime    *bool  `json:"real_time_verification"`
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*model.Report
	APIStatus pipeline.Capabilities `json:"api_status"`
}

// New creates a server and registers its routes
func New(engine Assessor, capabilities pipeline.Capabilities, cfg *model.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	metrics.Register()

	s := &Server{
		engine:       engine,
		capabilities: capabilities,
		config:       cfg.Server,
		defaults:     cfg.Engine,
		logger:       logger,
		router:       gin.New(),
	}
	s.attachRoutes()
	return s
}

func (s *Server) attachRoutes() {
	r := s.router
	r.Use(gin.Recovery(), requestLogger(s.logger))

	if len(s.config.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.config.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	api := r.Group("/api")
	{
		api.POST("/analyze", s.analyze)
		api.GET("/health", s.health)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) analyze(c *gin.Context) {
	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	req := pipeline.Request{
		Text:        strings.TrimSpace(body.Text),
		URL:         strings.TrimSpace(body.URL),
		AIAnalysis:  flag(body.AIAnalysis, s.defaults.AIAnalysis),
		FindSources: flag(body.FindSources, s.defaults.FindSources),
		RealTime:    flag(body.RealTime, s.defaults.RealTime),
	}
	if req.Text == "" && req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either text or URL must be provided"})
		return
	}

	ctx := c.Request.Context()
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	report, err := s.engine.Assess(ctx, req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, analyzeResponse{
			Success:   true,
			Report:    report,
			APIStatus: s.capabilities,
		})
	case errors.Is(err, model.ErrInputTooShort):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Text too short for analysis (minimum %d characters)", s.defaults.MinTextLength),
		})
	case errors.Is(err, pipeline.ErrFetchFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "analysis timed out"})
	default:
		s.logger.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"ai_available": s.capabilities.Reasoner != "",
		"features": gin.H{
			"ml_classification":      s.capabilities.Classifier,
			"ai_analysis":            s.capabilities.Reasoner != "",
			"real_time_verification": true,
			"content_quality":        true,
			"source_verification":    true,
		},
		"api_status": s.capabilities,
	})
}

func flag(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
