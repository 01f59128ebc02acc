package lessons

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

// DefaultWarmConcurrency is used when WarmRequest.Concurrency is unset.
const DefaultWarmConcurrency = 4

// Warm synthesizes every combination in w. Days without a source are
// counted as skipped. Any other error stops the run and is returned with
// the partial report.
func (s *Service) Warm(ctx context.Context, w WarmRequest) (WarmReport, error) {
	ctx, span := s.tracer.Start(ctx, "lessons.Warm", trace.WithAttributes(
		attribute.Int("warm.size", w.Size()),
	))
	defer span.End()

	limit := w.Concurrency
	if limit <= 0 {
		limit = DefaultWarmConcurrency
	}

	var synthesized, cached, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

loop:
	for _, day := range w.Days {
		for _, age := range w.Ages {
			for _, tone := range w.Tones {
				for _, lang := range w.Languages {
					if gctx.Err() != nil {
						break loop
					}
					req := Request{Day: day, Age: age, Tone: tone, Language: lang}
					g.Go(func() error {
						resp, err := s.Lesson(gctx, req)
						switch {
						case errors.Is(err, lesson.ErrSourceNotFound):
							skipped.Add(1)
							return nil
						case err != nil:
							return err
						case resp.FromCache:
							cached.Add(1)
						default:
							synthesized.Add(1)
						}
						return nil
					})
				}
			}
		}
	}

	err := g.Wait()
	report := WarmReport{
		Requested:   w.Size(),
		Synthesized: int(synthesized.Load()),
		Cached:      int(cached.Load()),
		Skipped:     int(skipped.Load()),
	}
	span.SetAttributes(
		attribute.Int("warm.synthesized", report.Synthesized),
		attribute.Int("warm.cached", report.Cached),
		attribute.Int("warm.skipped", report.Skipped),
	)
	s.log.Info("warm finished",
		zap.Int("requested", report.Requested),
		zap.Int("synthesized", report.Synthesized),
		zap.Int("cached", report.Cached),
		zap.Int("skipped", report.Skipped),
		zap.Error(err),
	)
	return report, err
}
