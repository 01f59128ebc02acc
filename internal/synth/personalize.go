package synth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

// stage is one step of the personalization pipeline. A stage that fails
// leaves the text as it was; the pipeline continues.
type stage struct {
	name string
	run  func(ctx context.Context, text string, p params.Params) (string, error)
}

// pipeline returns the personalization stages in their fixed order:
// age, tone, language, avatar.
func (s *Synthesizer) pipeline() []stage {
	return []stage{
		{"age", func(_ context.Context, text string, p params.Params) (string, error) {
			return AgeReplacements(p.Bucket).Apply(text), nil
		}},
		{"tone", func(_ context.Context, text string, p params.Params) (string, error) {
			return ToneReplacements(p.Tone).Apply(text), nil
		}},
		{"language", s.translateStage},
		{"avatar", avatarStage},
	}
}

func (s *Synthesizer) translateStage(ctx context.Context, text string, p params.Params) (string, error) {
	if p.Language == params.English || text == "" {
		return text, nil
	}
	if s.translator == nil {
		return text, errNoTranslator
	}
	out, err := callWithTimeout(ctx, func(ctx context.Context) (string, error) {
		return s.translator.Translate(ctx, text, p.Language)
	})
	if err != nil {
		return text, err
	}
	if out == "" {
		return text, fmt.Errorf("empty translation to %s", p.Language)
	}
	return out, nil
}

// avatarStage is the hook for avatar-specific phrasing. It currently passes
// text through.
func avatarStage(_ context.Context, text string, _ params.Params) (string, error) {
	return text, nil
}

// Personalize runs text through the pipeline. The boolean reports whether a
// collaborator stage failed and the text fell back to its untranslated form.
func (s *Synthesizer) Personalize(ctx context.Context, text string, p params.Params) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.personalize(ctx, text, p)
}

func (s *Synthesizer) personalize(ctx context.Context, text string, p params.Params) (string, bool) {
	degraded := false
	for _, st := range s.pipeline() {
		out, err := st.run(ctx, text, p)
		if err != nil {
			degraded = true
			if err != errNoTranslator {
				s.log.Debug("personalization stage failed",
					zap.String("stage", st.name),
					zap.String("language", string(p.Language)),
					zap.Error(err))
			}
			continue
		}
		text = out
	}
	return text, degraded
}

// personalizeAll personalizes every target in place and reports whether any
// collaborator call degraded. Translation calls share one deadline and run
// concurrently; all other stages are local.
func (s *Synthesizer) personalizeAll(ctx context.Context, targets []*string, p params.Params) bool {
	if p.Language == params.English || s.translator == nil {
		degraded := false
		for _, t := range targets {
			out, d := s.personalize(ctx, *t, p)
			*t = out
			degraded = degraded || d
		}
		return degraded
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := make([]string, len(targets))
	flags := make([]bool, len(targets))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, t := range targets {
		g.Go(func() error {
			results[i], flags[i] = s.personalize(ctx, *t, p)
			return nil
		})
	}
	_ = g.Wait()

	degraded := false
	for i, t := range targets {
		*t = results[i]
		degraded = degraded || flags[i]
	}
	return degraded
}
