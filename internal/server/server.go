// Package server exposes lesson synthesis over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/lessons"
)

const shutdownTimeout = 10 * time.Second

// LessonService serves lessons.
type LessonService interface {
	Lesson(ctx context.Context, req lessons.Request) (*lessons.Response, error)
}

// Config configures the HTTP server.
type Config struct {
	Addr        string
	Environment string
	Version     string
	CORSOrigins []string
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	svc     LessonService
	limiter Limiter
	log     *zap.Logger
	tp      trace.TracerProvider
	now     func() time.Time

	router *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLimiter enables per-client rate limiting on synthesis routes.
func WithLimiter(l Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTracerProvider sets the provider used by the request tracing
// middleware. The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tp = tp }
}

// WithClock overrides the time source used by the health endpoint.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds the server and its routes.
func New(cfg Config, svc LessonService, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())

	var otelOpts []otelgin.Option
	if s.tp != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(s.tp))
	}
	router.Use(otelgin.Middleware("lessonsynth", otelOpts...))
	router.Use(requestLogger(s.log))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/synthesize", s.handleSynthesize)
		api.GET("/lessons/:day", s.handleLesson)
	}

	s.router = router
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Client-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Cache", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
