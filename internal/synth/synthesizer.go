// Package synth composes personalized lessons from lesson sources.
//
// A DNA source is rendered by selecting each lesson part from the
// age expression, then the tone delivery, then a built-in default. A
// curriculum source is rendered by an optional Generator, falling back to
// deterministic topic templates. Every selected string then runs through
// the personalization pipeline. Synthesis never fails: collaborator errors
// degrade to the deterministic path and set Metadata.UsedFallback.
package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

// DefaultTimeout bounds each collaborator interaction.
const DefaultTimeout = 8 * time.Second

var errNoTranslator = errors.New("no translator configured")

// Synthesizer composes lessons. It is safe for concurrent use.
type Synthesizer struct {
	generator   Generator
	translator  Translator
	timeout     time.Duration
	concurrency int
	log         *zap.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithGenerator sets the text generation collaborator. Nil means absent.
func WithGenerator(g Generator) Option {
	return func(s *Synthesizer) { s.generator = g }
}

// WithTranslator sets the translation collaborator. Nil means absent.
func WithTranslator(t Translator) Option {
	return func(s *Synthesizer) { s.translator = t }
}

// WithTimeout bounds collaborator calls. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConcurrency limits parallel translation calls per lesson.
func WithConcurrency(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for Metadata.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// New creates a Synthesizer.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		timeout:     DefaultTimeout,
		concurrency: 4,
		log:         zap.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// HasGenerator reports whether a generation collaborator is configured.
func (s *Synthesizer) HasGenerator() bool { return s.generator != nil }

// HasTranslator reports whether a translation collaborator is configured.
func (s *Synthesizer) HasTranslator() bool { return s.translator != nil }

// Granularity returns the age bucketing that applies to src. DNA documents
// carry the fine-grained age table; curriculum topics use coarse buckets.
func Granularity(src *lesson.Source) params.Granularity {
	if src != nil && src.Kind() == lesson.KindDNA {
		return params.Fine
	}
	return params.Coarse
}

// Synthesize composes the lesson for src and p.
func (s *Synthesizer) Synthesize(ctx context.Context, src *lesson.Source, p params.Params) *lesson.Lesson {
	if src == nil {
		src = &lesson.Source{}
	}

	var (
		d        draft
		degraded bool
	)
	if src.Kind() == lesson.KindDNA {
		d = s.fromDNA(src, p)
	} else {
		d, degraded = s.fromCurriculum(ctx, src, p)
	}

	if s.personalizeAll(ctx, d.targets(), p) {
		degraded = true
	}

	return s.assemble(src, p, d, degraded)
}

// draft is a lesson before personalization.
type draft struct {
	generator     string
	introduction  string
	concept       string
	objective     string
	examples      string
	reflection    string
	conclusion    string
	encouragement string
	fortune       string
	questions     [QuestionCount]draftQuestion
}

type draftQuestion struct {
	text     string
	choices  [2]string
	feedback [2]string
	correct  int
}

func (d *draft) targets() []*string {
	t := []*string{
		&d.introduction, &d.concept, &d.objective, &d.examples,
		&d.reflection, &d.conclusion, &d.encouragement, &d.fortune,
	}
	for i := range d.questions {
		q := &d.questions[i]
		t = append(t, &q.text, &q.choices[0], &q.choices[1], &q.feedback[0], &q.feedback[1])
	}
	return t
}

func (s *Synthesizer) fromDNA(src *lesson.Source, p params.Params) draft {
	age := ageExpression(src.DNA, p)
	tone := src.DNA.ToneDelivery[string(p.Tone)]

	pick := func(part string) string { return selectFragment(part, age, tone) }

	d := draft{
		generator:     lesson.GeneratorDNA,
		introduction:  pick(partOpening),
		concept:       pick(partContext),
		objective:     pick(partObjective),
		examples:      pick(partExamples),
		reflection:    pick(partReflection),
		conclusion:    pick(partSummary),
		encouragement: pick(partEncouragement),
		fortune:       pick(partFortune),
	}
	for i := range d.questions {
		choices := selectList(choicesPart(i), age, tone)
		feedback := selectList(feedbackPart(i), age, tone)
		d.questions[i] = draftQuestion{
			text:     pick(questionPart(i)),
			choices:  [2]string{choices[0], choices[1]},
			feedback: pairFeedback(feedback),
			correct:  correctIndex(pick(correctPart(i))),
		}
	}
	return d
}

// ageExpression finds the age fragments for p. Fine anchors are tried as
// "age_N" and "N", then the coarse bucket name. A missing entry yields nil
// so selection continues at the tone level.
func ageExpression(dna *lesson.DNA, p params.Params) lesson.Fragments {
	if dna == nil || dna.AgeExpressions == nil {
		return nil
	}
	fine := strconv.Itoa(p.FineAge)
	for _, key := range []string{"age_" + fine, fine, string(p.Bucket)} {
		if f, ok := dna.AgeExpressions[key]; ok {
			return f
		}
	}
	return nil
}

// selectFragment picks age, then tone, then the built-in default. Empty
// values count as absent.
func selectFragment(part string, age, tone lesson.Fragments) string {
	if v := age.Get(part); v != "" {
		return v
	}
	if v := tone.Get(part); v != "" {
		return v
	}
	return builtinFragments.Get(part)
}

// selectList is selectFragment for list parts. Choice lists need at least two
// entries to be usable; feedback lists need one.
func selectList(part string, age, tone lesson.Fragments) []string {
	need := 2
	if strings.HasPrefix(part, "feedback_") {
		need = 1
	}
	for _, f := range []lesson.Fragments{age, tone, builtinFragments} {
		if v := f.Choices(part); len(v) >= need {
			return v
		}
	}
	return builtinFragments.Choices(part)
}

// pairFeedback gives each choice its feedback line; a single line covers
// both choices.
func pairFeedback(lines []string) [2]string {
	if len(lines) == 1 {
		return [2]string{lines[0], lines[0]}
	}
	return [2]string{lines[0], lines[1]}
}

func correctIndex(v string) int {
	if v == "1" {
		return 1
	}
	return 0
}

func (s *Synthesizer) fromCurriculum(ctx context.Context, src *lesson.Source, p params.Params) (draft, bool) {
	topic, objective := curriculumTopic(src)
	d := templateDraft(src, topic, objective, p)

	if s.generator == nil {
		return d, false
	}

	prompt := Prompt{
		System: lessonSystemPrompt,
		User: buildLessonUserMessage(PromptInput{
			Title:     topic,
			Objective: objective,
			Bucket:    p.Bucket,
			Tone:      p.Tone,
		}),
		Schema: LessonSchema,
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := callWithTimeout(gctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.generator.Generate(ctx, prompt)
	})
	if err != nil {
		s.log.Warn("lesson generation unavailable, using templates",
			zap.Int("lesson_id", src.ID), zap.Error(err))
		return d, true
	}

	gen, err := parseGenerated(raw)
	if err != nil {
		s.log.Warn("generated lesson rejected, using templates",
			zap.Int("lesson_id", src.ID), zap.Error(err))
		return d, true
	}

	d.generator = lesson.GeneratorLLM
	d.introduction = gen.Opening
	d.conclusion = gen.Closing
	d.fortune = gen.Fortune
	for i, q := range gen.Questions {
		d.questions[i] = draftQuestion{
			text:     q.Question,
			choices:  [2]string{q.Choices[0], q.Choices[1]},
			feedback: [2]string{q.Feedback[0], q.Feedback[1]},
			correct:  q.CorrectIndex,
		}
	}
	return d, false
}

func curriculumTopic(src *lesson.Source) (topic, objective string) {
	topic = src.Title
	objective = src.LearningObjective
	if c := src.Curriculum; c != nil {
		if topic == "" {
			topic = c.Topic
		}
		if objective == "" {
			objective = c.Objective
		}
	}
	if topic == "" {
		topic = "today's topic"
	}
	if objective == "" {
		objective = topic
	}
	return topic, strings.TrimRight(objective, ".!? ")
}

// templateDraft renders the deterministic curriculum lesson.
func templateDraft(src *lesson.Source, topic, objective string, p params.Params) draft {
	af := frameFor(p.Bucket)
	tf := toneFrameFor(p.Tone)
	f := func(frame string) string { return fill(frame, topic, objective) }

	d := draft{
		generator:     lesson.GeneratorTemplate,
		introduction:  tf.opener + " " + f(af.hook),
		concept:       f(af.context),
		objective:     f(af.objective),
		reflection:    f(af.reflection),
		conclusion:    f(af.summary) + " " + tf.closer,
		encouragement: tf.encouragement,
		fortune:       tf.fortune,
	}

	var examples []string
	if c := src.Curriculum; c != nil {
		if c.Concept != "" {
			d.concept = c.Concept
		}
		if c.Reflection != "" {
			d.reflection = c.Reflection
		}
		examples = c.Examples
	}
	if len(examples) == 0 {
		examples = []string{f(af.defaultExample)}
	}
	parts := make([]string, len(examples))
	for i, ex := range examples {
		parts[i] = af.examplePrefix + ex
	}
	d.examples = strings.Join(parts, " ")

	for i, qf := range af.questions {
		d.questions[i] = draftQuestion{
			text:     f(qf.question),
			choices:  [2]string{f(qf.choices[0]), f(qf.choices[1])},
			feedback: [2]string{f(qf.feedback[0]), f(qf.feedback[1])},
		}
	}
	return d
}

// parseGenerated decodes and checks generator output against the lesson
// contract: three questions, two choices and two feedback lines each.
func parseGenerated(raw json.RawMessage) (*generatedLesson, error) {
	var out generatedLesson
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse generated lesson: %w", err)
	}
	if blank(out.Opening) || blank(out.Closing) || blank(out.Fortune) {
		return nil, errors.New("generated lesson is missing opening, closing or fortune")
	}
	if len(out.Questions) != QuestionCount {
		return nil, fmt.Errorf("generated lesson has %d questions, want %d", len(out.Questions), QuestionCount)
	}
	for i, q := range out.Questions {
		if blank(q.Question) {
			return nil, fmt.Errorf("question %d is empty", i+1)
		}
		if len(q.Choices) != 2 || blank(q.Choices[0]) || blank(q.Choices[1]) {
			return nil, fmt.Errorf("question %d needs exactly 2 choices", i+1)
		}
		if len(q.Feedback) != 2 || blank(q.Feedback[0]) || blank(q.Feedback[1]) {
			return nil, fmt.Errorf("question %d needs exactly 2 feedback lines", i+1)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex > 1 {
			return nil, fmt.Errorf("question %d has correct_index %d", i+1, q.CorrectIndex)
		}
	}
	return &out, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// callWithTimeout runs fn and returns when it finishes or ctx is done,
// whichever is first. A collaborator that ignores ctx cannot stall synthesis.
func callWithTimeout[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func lessonTitle(src *lesson.Source) string {
	switch {
	case src.Title != "":
		return src.Title
	case src.DNA != nil && src.DNA.Title != "":
		return src.DNA.Title
	case src.Curriculum != nil && src.Curriculum.Topic != "":
		return src.Curriculum.Topic
	default:
		return fmt.Sprintf("Day %d Learning", src.ID)
	}
}

// phrases prefers the key phrases a DNA document carries for lang.
func phrases(src *lesson.Source, lang params.Language) params.KeyPhrases {
	base := lang.Phrases()
	if t, ok := src.DNA.Translation(lang); ok {
		return base.Overlay(t.KeyPhrases)
	}
	return base
}

func (s *Synthesizer) assemble(src *lesson.Source, p params.Params, d draft, degraded bool) *lesson.Lesson {
	title := lessonTitle(src)

	l := &lesson.Lesson{
		Title: title,
		Sections: lesson.Sections{
			Introduction:  d.introduction,
			Concept:       d.concept,
			Objective:     d.objective,
			Examples:      d.examples,
			Reflection:    d.reflection,
			Conclusion:    d.conclusion,
			Encouragement: d.encouragement,
		},
		Questions: make([]lesson.Question, 0, QuestionCount),
		Fortune:   d.fortune,
	}
	for i, q := range d.questions {
		l.Questions = append(l.Questions, lesson.Question{
			Text:               q.text,
			Choices:            q.choices,
			CorrectChoiceIndex: q.correct,
			Feedback:           q.feedback,
			Expression:         params.QuestionExpression(i),
		})
	}

	durations := make(map[params.Phase]int, len(params.Phases))
	for _, ph := range params.Phases {
		durations[ph] = params.PhaseDuration(ph, p.Age)
	}
	total := durations[params.PhaseOpening] + QuestionCount*durations[params.PhaseQuestion] +
		durations[params.PhaseClosing] + durations[params.PhaseFortune]

	l.Metadata = lesson.Metadata{
		LessonID:        src.ID,
		Slug:            lesson.Slugify(title),
		SourceKind:      src.Kind(),
		AgeBucket:       p.Bucket,
		FineAge:         p.FineAge,
		Tone:            p.Tone,
		Language:        p.Language,
		Avatar:          p.Avatar,
		Complexity:      params.ComplexityLabel(p.Age),
		Durations:       durations,
		TotalDuration:   total,
		EngagementScore: params.EngagementScore(p.Age, p.Tone),
		AvatarInfo:      params.InfoFor(p.Tone, p.Avatar),
		Phrases:         phrases(src, p.Language),
		UsedFallback:    degraded,
		Generator:       d.generator,
		GenerationID:    s.newID(),
		GeneratedAt:     s.now().UTC(),
	}
	return l
}
