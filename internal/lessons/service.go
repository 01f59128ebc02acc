// Package lessons serves personalized lessons: it loads the day's source,
// normalizes the request, and synthesizes through the shared cache.
package lessons

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/params"
	"github.com/ilearnhow/lessonsynth/internal/source"
	"github.com/ilearnhow/lessonsynth/internal/store"
	"github.com/ilearnhow/lessonsynth/internal/synth"
	"github.com/ilearnhow/lessonsynth/internal/synthcache"
)

const tracerName = "github.com/ilearnhow/lessonsynth/internal/lessons"

// SynthesisRecorder persists one event per served request.
type SynthesisRecorder interface {
	AppendSynthesis(ctx context.Context, data store.SynthesisEventData) error
}

// Service is safe for concurrent use.
type Service struct {
	loader source.Loader
	synth  *synth.Synthesizer
	cache  *synthcache.Cache

	events SynthesisRecorder
	tracer trace.Tracer
	log    *zap.Logger
	now    func() time.Time

	wg sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithEvents records a synthesis event for every request.
func WithEvents(r SynthesisRecorder) Option {
	return func(s *Service) { s.events = r }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a lesson service. Nil arguments fall back to the
// built-in curriculum, a synthesizer without collaborators and a private
// in-memory cache.
func NewService(loader source.Loader, sy *synth.Synthesizer, cache *synthcache.Cache, opts ...Option) *Service {
	if cache == nil {
		cache = synthcache.New()
	}
	if loader == nil {
		loader = source.Builtin()
	}
	if sy == nil {
		sy = synth.New()
	}
	s := &Service{
		loader: loader,
		synth:  sy,
		cache:  cache,
		tracer: otel.Tracer(tracerName),
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Cache returns the cache the service synthesizes through.
func (s *Service) Cache() *synthcache.Cache { return s.cache }

// Lesson serves the lesson for req. The only error a caller should expect
// is one matching lesson.ErrSourceNotFound; synthesis itself never fails.
func (s *Service) Lesson(ctx context.Context, req Request) (*Response, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "lessons.Lesson", trace.WithAttributes(
		attribute.Int("lesson.day", req.Day),
		attribute.Int("lesson.age", req.Age),
	))
	defer span.End()

	src, err := s.loader.Load(ctx, req.Day)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.record(ctx, store.SynthesisEventData{
			LessonID:     req.Day,
			LatencyMs:    s.since(start),
			ErrorMessage: err.Error(),
		})
		return nil, fmt.Errorf("load day %d: %w", req.Day, err)
	}

	p := params.Normalize(req.Age, req.Tone, req.Language, req.Avatar)
	key := synthcache.NewKey(req.Day, p, synth.Granularity(src), true)
	span.SetAttributes(
		attribute.String("lesson.source_kind", string(src.Kind())),
		attribute.String("lesson.age_key", key.AgeKey),
		attribute.String("lesson.tone", string(p.Tone)),
		attribute.String("lesson.language", string(p.Language)),
		attribute.String("lesson.avatar", string(p.Avatar)),
	)

	res, err := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*lesson.Lesson, error) {
		return s.synth.Synthesize(ctx, src, p), nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("synthesize day %d: %w", req.Day, err)
	}

	meta := res.Lesson.Metadata
	span.SetAttributes(
		attribute.Bool("lesson.from_cache", res.FromCache),
		attribute.Bool("lesson.used_fallback", meta.UsedFallback),
		attribute.String("lesson.generator", meta.Generator),
	)
	s.record(ctx, store.SynthesisEventData{
		LessonID:     req.Day,
		CacheKey:     key.String(),
		SourceKind:   string(src.Kind()),
		Generator:    meta.Generator,
		GenerationID: meta.GenerationID,
		FromCache:    res.FromCache,
		UsedFallback: meta.UsedFallback,
		LatencyMs:    s.since(start),
	})

	s.log.Debug("lesson served",
		zap.String("key", key.String()),
		zap.Bool("from_cache", res.FromCache),
		zap.Bool("shared", res.Shared),
		zap.Bool("used_fallback", meta.UsedFallback),
	)

	return &Response{
		Lesson:    res.Lesson,
		FromCache: res.FromCache,
		Key:       key.String(),
		Params:    p,
	}, nil
}

// Prefetch starts synthesis of req in the background so a later Lesson
// call for the same parameters is served from the cache. The work outlives
// ctx cancellation; use Wait to drain it.
func (s *Service) Prefetch(ctx context.Context, req Request) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Lesson(ctx, req); err != nil && !errors.Is(err, lesson.ErrSourceNotFound) {
			s.log.Warn("prefetch failed", zap.Int("day", req.Day), zap.Error(err))
		}
	}()
}

// Wait blocks until every prefetch has finished.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) record(ctx context.Context, data store.SynthesisEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendSynthesis(context.WithoutCancel(ctx), data); err != nil {
		s.log.Warn("failed to record synthesis event", zap.Int("day", data.LessonID), zap.Error(err))
	}
}

func (s *Service) since(start time.Time) int64 {
	return s.now().Sub(start).Milliseconds()
}
