// Package api exposes the recommendation service over HTTP with gin.
//
// Every route is served both under /api/v1 and at the bare path.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rasaroots/internal/config"
	"rasaroots/internal/evaluation"
	"rasaroots/internal/logging"
	"rasaroots/internal/models"
	"rasaroots/internal/monitoring"
	"rasaroots/internal/preferences"
	"rasaroots/internal/recommend"
)

// FeedbackStore persists feedback.
type FeedbackStore interface {
	Ping(ctx context.Context) error
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context, userID string) ([]models.Feedback, error)
}

// PreferenceStore reads and updates preference documents.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (models.Preferences, error)
	Merge(ctx context.Context, userID string, patch preferences.Patch) (models.Preferences, error)
}

// Options configures a Server.
type Options struct {
	Facade      *recommend.Facade
	Feedback    FeedbackStore
	Preferences PreferenceStore
	Monitor     *monitoring.Monitor
	// Live serves the websocket feed; nil leaves the route out.
	Live gin.HandlerFunc

	Auth              config.AuthConfig
	RateLimit         float64
	RateBurst         int
	PreferenceTimeout time.Duration
}

// Server handles recommendation requests
type Server struct {
	router  *gin.Engine
	facade  *recommend.Facade
	fb      FeedbackStore
	prefs   PreferenceStore
	monitor *monitoring.Monitor
	eval    *evaluation.Evaluator
	opts    Options
}

// NewServer creates a new API server instance
func NewServer(opts Options) *Server {
	if opts.Monitor == nil {
		opts.Monitor = monitoring.NewMonitor()
	}
	if opts.PreferenceTimeout <= 0 {
		opts.PreferenceTimeout = time.Second
	}
	registerValidators()

	s := &Server{
		router:  gin.New(),
		facade:  opts.Facade,
		fb:      opts.Feedback,
		prefs:   opts.Preferences,
		monitor: opts.Monitor,
		eval:    evaluation.NewEvaluator(opts.Facade.Catalog()),
		opts:    opts,
	}
	s.setupRoutes()
	return s
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(
		gin.Recovery(),
		requestID(),
		accessLog(),
		metrics(),
		rateLimit(s.opts.RateLimit, s.opts.RateBurst),
		authenticate(s.opts.Auth),
	)

	s.router.GET("/health", s.handleHealth)
	if s.opts.Live != nil {
		s.router.GET("/ws/suggestions", s.opts.Live)
	}

	s.registerRoutes(s.router.Group("/api/v1"))
	s.registerRoutes(s.router.Group(""))
}

func (s *Server) registerRoutes(g *gin.RouterGroup) {
	g.GET("/status", s.handleStatus)

	g.GET("/suggestions/daily", s.handleDaily)
	g.GET("/suggestions/now", s.handleNow)
	g.GET("/suggestions/occasion/:occasionId", s.handleOccasion)

	g.GET("/dishes", s.handleListDishes)
	g.GET("/dishes/meal/:mealType", s.handleDishesByMealType)
	g.GET("/dishes/:id", s.handleGetDish)

	g.GET("/festivals", s.handleListFestivals)
	g.GET("/festivals/upcoming", s.handleUpcomingFestival)
	g.GET("/festivals/today", s.handleTodayFestival)
	g.GET("/festivals/:id", s.handleGetFestival)

	g.POST("/recommendations/ml", s.handleML)

	g.POST("/feedback", s.handleCreateFeedback)
	g.GET("/users/:userId/feedback", s.requireUser(), s.handleListFeedback)
	g.GET("/users/:userId/feedback/summary", s.requireUser(), s.handleFeedbackSummary)
	g.GET("/users/:userId/preferences", s.requireUser(), s.handleGetPreferences)
	g.PUT("/users/:userId/preferences", s.requireUser(), s.handleUpdatePreferences)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if err := s.fb.Ping(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("feedback store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dishes": s.facade.Catalog().Len()})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}
