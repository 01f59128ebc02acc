package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/lessons"
	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/source"
)

// synthesizeRequest is the body of POST /api/synthesize.
type synthesizeRequest struct {
	Day      int    `json:"day" binding:"required,min=1,max=366"`
	Age      *int   `json:"age" binding:"required,min=0,max=150"`
	Tone     string `json:"tone" binding:"max=32"`
	Language string `json:"language" binding:"max=32"`
	Avatar   string `json:"avatar" binding:"max=32"`
	ClientID string `json:"clientId" binding:"max=128"`
}

// lessonQuery is the query string of GET /api/lessons/:day.
type lessonQuery struct {
	Age      *int   `form:"age" binding:"required,min=0,max=150"`
	Tone     string `form:"tone" binding:"max=32"`
	Language string `form:"language" binding:"max=32"`
	Avatar   string `form:"avatar" binding:"max=32"`
	ClientID string `form:"clientId" binding:"max=128"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   s.now().UTC().Format(time.RFC3339),
		"environment": s.cfg.Environment,
		"version":     s.cfg.Version,
	})
}

func (s *Server) handleSynthesize(c *gin.Context) {
	var body synthesizeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	s.serve(c, body.ClientID, lessons.Request{
		Day:      body.Day,
		Age:      *body.Age,
		Tone:     body.Tone,
		Language: body.Language,
		Avatar:   body.Avatar,
	})
}

func (s *Server) handleLesson(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 || day > source.MaxDay {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Message: "day must be between 1 and 366"})
		return
	}
	var q lessonQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	s.serve(c, q.ClientID, lessons.Request{
		Day:      day,
		Age:      *q.Age,
		Tone:     q.Tone,
		Language: q.Language,
		Avatar:   q.Avatar,
	})
}

func (s *Server) serve(c *gin.Context, clientID string, req lessons.Request) {
	if !s.allow(c, clientID) {
		return
	}

	resp, err := s.svc.Lesson(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if resp.FromCache {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, resp)
}

// allow applies the rate limit and writes the 429 response when exceeded.
// Limiter failures let the request through.
func (s *Server) allow(c *gin.Context, clientID string) bool {
	if s.limiter == nil {
		return true
	}
	client := clientKey(c, clientID)
	d, err := s.limiter.Allow(c.Request.Context(), client)
	if err != nil {
		s.log.Warn("rate limiter unavailable", zap.String("client", client), zap.Error(err))
		return true
	}
	if d.Allowed {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		return true
	}
	c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Round(time.Second).Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
		Error:   "rate limit exceeded",
		Message: "Too many requests. Please try again later.",
	})
	return false
}

func clientKey(c *gin.Context, clientID string) string {
	if id := strings.TrimSpace(clientID); id != "" {
		return "client:" + id
	}
	if id := strings.TrimSpace(c.GetHeader("X-Client-ID")); id != "" {
		return "client:" + id
	}
	return "ip:" + c.ClientIP()
}

func (s *Server) writeError(c *gin.Context, err error) {
	var budget *llm.ErrBudgetExceeded
	switch {
	case errors.Is(err, lesson.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "lesson not found", Message: err.Error()})
	case errors.As(err, &budget):
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: "generation budget exhausted", Message: err.Error()})
	default:
		s.log.Error("lesson request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "synthesis failed"})
	}
}
