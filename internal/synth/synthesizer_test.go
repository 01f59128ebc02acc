package synth

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

var fixedNow = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestSynth(opts ...Option) *Synthesizer {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(opts...)
}

func sunSource() *lesson.Source {
	return &lesson.Source{
		ID:                1,
		Title:             "The Sun",
		LearningObjective: "Understand solar energy",
		Curriculum:        &lesson.Curriculum{Topic: "The Sun", Objective: "Understand solar energy"},
	}
}

func validGeneratedJSON() json.RawMessage {
	return json.RawMessage(`{
		"opening": "Hello! The Sun is a star.",
		"questions": [
			{"question": "Is the Sun hot?", "choices": ["Yes", "No"], "correct_index": 0, "feedback": ["Right!", "It is very hot."]},
			{"question": "Where is the Sun?", "choices": ["Under the sea", "In the sky"], "correct_index": 1, "feedback": ["Look up!", "Yes, in the sky."]},
			{"question": "When do we see it?", "choices": ["Day", "Night"], "correct_index": 0, "feedback": ["Yes!", "Not at night."]}
		],
		"closing": "You learned about the Sun.",
		"fortune": "Shine bright today."
	}`)
}

func assertWellFormed(t *testing.T, l *lesson.Lesson) {
	t.Helper()
	if len(l.Questions) != QuestionCount {
		t.Fatalf("expected %d questions, got %d", QuestionCount, len(l.Questions))
	}
	for i, q := range l.Questions {
		if q.Text == "" {
			t.Errorf("question %d has empty text", i)
		}
		for j := 0; j < 2; j++ {
			if q.Choices[j] == "" {
				t.Errorf("question %d choice %d is empty", i, j)
			}
			if q.Feedback[j] == "" {
				t.Errorf("question %d feedback %d is empty", i, j)
			}
		}
		if q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex > 1 {
			t.Errorf("question %d correct index %d", i, q.CorrectChoiceIndex)
		}
	}
	s := l.Sections
	for name, v := range map[string]string{
		"introduction": s.Introduction, "concept": s.Concept, "objective": s.Objective,
		"examples": s.Examples, "reflection": s.Reflection, "conclusion": s.Conclusion,
		"encouragement": s.Encouragement, "fortune": l.Fortune,
	} {
		if v == "" {
			t.Errorf("section %s is empty", name)
		}
	}
}

func TestSynthesize_SunForYoungChildWithGrandmother(t *testing.T) {
	s := newTestSynth()
	p := params.Normalize(4, "grandmother", "english", "")

	l := s.Synthesize(t.Context(), sunSource(), p)

	assertWellFormed(t, l)
	if !strings.Contains(l.Sections.Introduction, "Hello, dear") {
		t.Errorf("expected grandmother greeting, got %q", l.Sections.Introduction)
	}
	if !strings.Contains(l.Sections.Introduction, "Sun") {
		t.Errorf("expected opening to reference the Sun, got %q", l.Sections.Introduction)
	}
	if l.Metadata.AgeBucket != params.EarlyChildhood {
		t.Errorf("age bucket = %q", l.Metadata.AgeBucket)
	}
	if l.Metadata.Avatar != params.Kelly || l.Metadata.AvatarInfo.VoiceID == "" {
		t.Errorf("unexpected avatar metadata %+v", l.Metadata.AvatarInfo)
	}
	if l.Metadata.UsedFallback {
		t.Error("no collaborator was configured, so nothing should be flagged as fallback")
	}
	if l.Metadata.Generator != lesson.GeneratorTemplate {
		t.Errorf("generator = %q", l.Metadata.Generator)
	}
	if l.Metadata.Complexity != "very_simple" || l.Metadata.EngagementScore != 88 {
		t.Errorf("complexity=%q engagement=%d", l.Metadata.Complexity, l.Metadata.EngagementScore)
	}
	if l.Metadata.TotalDuration != 45+3*68+38+23 {
		t.Errorf("total duration = %d", l.Metadata.TotalDuration)
	}
	if l.Metadata.Slug != "the-sun" {
		t.Errorf("slug = %q", l.Metadata.Slug)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	sources := []*lesson.Source{sunSource(), dnaSource()}
	s := newTestSynth()

	for _, src := range sources {
		for _, age := range []int{3, 9, 20, 45, 85} {
			for _, tone := range params.Tones {
				p := params.Normalize(age, string(tone), "en", "")
				a := s.Synthesize(t.Context(), src, p)
				b := s.Synthesize(t.Context(), src, p)
				a.Metadata.GenerationID, b.Metadata.GenerationID = "", ""
				if !reflect.DeepEqual(a, b) {
					t.Fatalf("synthesis of %q at age %d tone %s is not deterministic", src.Title, age, tone)
				}
			}
		}
	}
}

func TestSynthesize_TemplateFramesDifferByAgeAndTone(t *testing.T) {
	s := newTestSynth()
	seen := map[string]string{}
	for _, b := range []int{4, 10, 20, 40, 70} {
		for _, tone := range params.Tones {
			p := params.Normalize(b, string(tone), "english", "")
			intro := s.Synthesize(t.Context(), sunSource(), p).Sections.Introduction
			combo := string(p.Bucket) + "/" + string(tone)
			if prev, ok := seen[intro]; ok {
				t.Fatalf("%s and %s share opening %q", prev, combo, intro)
			}
			seen[intro] = combo
		}
	}
}

func dnaSource() *lesson.Source {
	return &lesson.Source{
		ID:    2,
		Title: "Photosynthesis",
		DNA: &lesson.DNA{
			LessonID: "photosynthesis",
			Day:      2,
			AgeExpressions: map[string]lesson.Fragments{
				"youth": {
					"opening_hook": "Plants make food from light.",
					"choices_2":    "Leaves|Roots|Flowers",
				},
				"age_80": {
					"opening_hook": "Consider the quiet work of leaves.",
				},
			},
			ToneDelivery: map[string]lesson.Fragments{
				"fun": {
					"question_1":   "Fun question about plants?",
					"opening_hook": "Tone-level opening.",
					"feedback_1":   "Yes!|Try again!",
					"correct_1":    "1",
				},
			},
		},
	}
}

func TestSynthesize_ThreeLevelFallback(t *testing.T) {
	s := newTestSynth()
	l := s.Synthesize(t.Context(), dnaSource(), params.Normalize(10, "fun", "english", ""))

	assertWellFormed(t, l)
	if l.Sections.Introduction != "Plants make food from light." {
		t.Errorf("age-level opening should win, got %q", l.Sections.Introduction)
	}
	q1 := l.Questions[0]
	if q1.Text != "Fun question about plants?" {
		t.Errorf("tone-level question_1 should be used, got %q", q1.Text)
	}
	if q1.Feedback != [2]string{"Yes!", "Try again!"} || q1.CorrectChoiceIndex != 1 {
		t.Errorf("unexpected question_1 feedback %v correct %d", q1.Feedback, q1.CorrectChoiceIndex)
	}
	if l.Questions[1].Text != "How does this connect to your life?" {
		t.Errorf("built-in question_2 expected, got %q", l.Questions[1].Text)
	}
	if l.Questions[1].Choices != [2]string{"Leaves", "Roots"} {
		t.Errorf("age-level choices should be trimmed to two, got %v", l.Questions[1].Choices)
	}
	if l.Metadata.Generator != lesson.GeneratorDNA || l.Metadata.SourceKind != lesson.KindDNA {
		t.Errorf("unexpected generator %q / kind %q", l.Metadata.Generator, l.Metadata.SourceKind)
	}

	// Neutral tone has no tone delivery, so question_1 falls to the default.
	l = s.Synthesize(t.Context(), dnaSource(), params.Normalize(10, "neutral", "english", ""))
	if l.Questions[0].Text != "What interests you most about this topic?" {
		t.Errorf("built-in question_1 expected, got %q", l.Questions[0].Text)
	}
}

func TestSynthesize_FineAnchorLookup(t *testing.T) {
	s := newTestSynth()
	l := s.Synthesize(t.Context(), dnaSource(), params.Normalize(95, "neutral", "english", ""))
	if l.Sections.Introduction != "Consider the quiet work of leaves." {
		t.Errorf("expected age_80 expression for age 95, got %q", l.Sections.Introduction)
	}
}

func TestSynthesize_MalformedDNA(t *testing.T) {
	s := newTestSynth()
	src := &lesson.Source{ID: 9, DNA: &lesson.DNA{}}

	l := s.Synthesize(t.Context(), src, params.Normalize(30, "grandmother", "english", ""))

	assertWellFormed(t, l)
	if l.Title != "Day 9 Learning" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Fortune != "Your curiosity is your superpower. Keep learning and growing!" {
		t.Errorf("fortune = %q", l.Fortune)
	}
}

func TestSynthesize_NilSource(t *testing.T) {
	l := newTestSynth().Synthesize(t.Context(), nil, params.Normalize(7, "xyz", "??", ""))
	assertWellFormed(t, l)
}

func TestSynthesize_UsesGenerator(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validGeneratedJSON()})
	s := newTestSynth(WithGenerator(NewLLMGenerator(mock, DefaultGeneratorConfig())))

	l := s.Synthesize(t.Context(), sunSource(), params.Normalize(30, "neutral", "english", ""))

	assertWellFormed(t, l)
	if l.Metadata.Generator != lesson.GeneratorLLM || l.Metadata.UsedFallback {
		t.Fatalf("expected llm generator without fallback, got %q / %v", l.Metadata.Generator, l.Metadata.UsedFallback)
	}
	if l.Sections.Introduction != "Hello! The Sun is a star." {
		t.Errorf("introduction = %q", l.Sections.Introduction)
	}
	if l.Questions[1].CorrectChoiceIndex != 1 {
		t.Errorf("correct index not carried over")
	}

	req := mock.Calls[0]
	if req.Schema != LessonSchema {
		t.Error("expected lesson schema on request")
	}
	prompt := req.Messages[0].Content
	for _, want := range []string{"The Sun", "Understand solar energy", "adults (ages 26-60)", "clear, direct, and balanced"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSynthesize_GeneratorFailuresFallBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
		{"malformed json", llm.MockResponse{Content: json.RawMessage(`{"opening":`)}},
		{"too few questions", llm.MockResponse{Content: json.RawMessage(`{"opening":"a","questions":[],"closing":"b","fortune":"c"}`)}},
		{"three choices", llm.MockResponse{Content: json.RawMessage(`{"opening":"a","closing":"b","fortune":"c","questions":[
			{"question":"q","choices":["1","2","3"],"correct_index":0,"feedback":["x","y"]},
			{"question":"q","choices":["1","2"],"correct_index":0,"feedback":["x","y"]},
			{"question":"q","choices":["1","2"],"correct_index":0,"feedback":["x","y"]}]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			s := newTestSynth(WithGenerator(NewLLMGenerator(mock, DefaultGeneratorConfig())))

			l := s.Synthesize(t.Context(), sunSource(), params.Normalize(8, "fun", "english", ""))

			assertWellFormed(t, l)
			if !l.Metadata.UsedFallback {
				t.Error("expected usedFallback")
			}
			if l.Metadata.Generator != lesson.GeneratorTemplate {
				t.Errorf("generator = %q", l.Metadata.Generator)
			}
		})
	}
}

// stuckGenerator never returns on its own.
type stuckGenerator struct{ release chan struct{} }

func (g stuckGenerator) Generate(_ context.Context, _ Prompt) (json.RawMessage, error) {
	<-g.release
	return nil, errors.New("released")
}

func TestSynthesize_GeneratorTimeout(t *testing.T) {
	gen := stuckGenerator{release: make(chan struct{})}
	defer close(gen.release)

	s := newTestSynth(WithGenerator(gen), WithTimeout(50*time.Millisecond))

	start := time.Now()
	l := s.Synthesize(t.Context(), sunSource(), params.Normalize(8, "fun", "english", ""))
	if time.Since(start) > 2*time.Second {
		t.Fatalf("synthesis took %s, expected the timeout to cut it short", time.Since(start))
	}
	assertWellFormed(t, l)
	if !l.Metadata.UsedFallback {
		t.Error("expected usedFallback after timeout")
	}
}

type prefixTranslator struct{ fail bool }

func (p prefixTranslator) Translate(_ context.Context, text string, target params.Language) (string, error) {
	if p.fail {
		return "", errors.New("translation service down")
	}
	return "[" + target.Code() + "] " + text, nil
}

func TestSynthesize_Translation(t *testing.T) {
	s := newTestSynth(WithTranslator(prefixTranslator{}))
	l := s.Synthesize(t.Context(), sunSource(), params.Normalize(8, "neutral", "es", ""))

	if !strings.HasPrefix(l.Sections.Introduction, "[es] ") {
		t.Errorf("introduction not translated: %q", l.Sections.Introduction)
	}
	if !strings.HasPrefix(l.Questions[2].Feedback[1], "[es] ") {
		t.Errorf("feedback not translated: %q", l.Questions[2].Feedback[1])
	}
	if l.Metadata.UsedFallback {
		t.Error("translation succeeded, no fallback expected")
	}
	if l.Metadata.Phrases.Greeting != "¡Bienvenido de nuevo!" {
		t.Errorf("phrases = %+v", l.Metadata.Phrases)
	}
}

func TestSynthesize_TranslationFailurePassesThrough(t *testing.T) {
	english := newTestSynth().Synthesize(t.Context(), sunSource(), params.Normalize(8, "neutral", "english", ""))

	for name, s := range map[string]*Synthesizer{
		"failing translator": newTestSynth(WithTranslator(prefixTranslator{fail: true})),
		"no translator":      newTestSynth(),
	} {
		t.Run(name, func(t *testing.T) {
			l := s.Synthesize(t.Context(), sunSource(), params.Normalize(8, "neutral", "fr", ""))
			if l.Sections.Introduction != english.Sections.Introduction {
				t.Errorf("expected untranslated text, got %q", l.Sections.Introduction)
			}
			if !l.Metadata.UsedFallback {
				t.Error("expected usedFallback")
			}
		})
	}
}

func TestPersonalize_NeutralYoungAdultIsNoOp(t *testing.T) {
	s := newTestSynth()
	p := params.Normalize(25, "neutral", "english", "")

	text := "The Sun warms the Earth every day."
	got, degraded := s.Personalize(t.Context(), text, p)
	if got != text || degraded {
		t.Errorf("Personalize(%q) = %q, %v", text, got, degraded)
	}

	// The young adult table is still active for matching words.
	got, _ = s.Personalize(t.Context(), "A simple and basic idea", p)
	if got != "A straightforward and fundamental idea" {
		t.Errorf("young adult substitutions not applied: %q", got)
	}
}

func TestPersonalize_Order(t *testing.T) {
	s := newTestSynth()
	tests := []struct {
		age  int
		tone string
		in   string
		want string
	}{
		{4, "grandmother", "Hello! This is complex.", "Hello, dear! This is simple."},
		{4, "fun", "Great, an advanced topic", "Awesome!, an basic topic"},
		{10, "neutral", "you should try", "you might want to try"},
		{40, "neutral", "a new simple idea", "a valuable practical idea"},
		{70, "grandmother", "Welcome to a new simple day", "Welcome, sweetheart to a meaningful profound day"},
	}
	for _, tt := range tests {
		got, _ := s.Personalize(t.Context(), tt.in, params.Normalize(tt.age, tt.tone, "english", ""))
		if got != tt.want {
			t.Errorf("Personalize(%q, age %d, %s) = %q, want %q", tt.in, tt.age, tt.tone, got, tt.want)
		}
	}
}

func TestSynthesize_DNAKeyPhrasesOverrideBuiltins(t *testing.T) {
	src := dnaSource()
	src.DNA.LanguageTranslations = map[string]lesson.Translation{
		"es": {LanguageCode: "es", KeyPhrases: params.KeyPhrases{Greeting: "¡Hola, sol!"}},
	}

	l := newTestSynth().Synthesize(t.Context(), src, params.Normalize(30, "neutral", "spanish", ""))

	if l.Metadata.Phrases.Greeting != "¡Hola, sol!" {
		t.Errorf("greeting = %q", l.Metadata.Phrases.Greeting)
	}
	if l.Metadata.Phrases.Closing != params.Spanish.Phrases().Closing {
		t.Errorf("unset phrases should keep built-ins, closing = %q", l.Metadata.Phrases.Closing)
	}
}
