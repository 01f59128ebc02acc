package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

const sunDNA = `{
	"lesson_id": "the-sun",
	"day": 1,
	"date": "January 1",
	"title": "The Sun",
	"universal_concept": "Energy flows from the Sun to every living thing.",
	"core_principle": "Light is energy.",
	"learning_essence": "Understand solar energy",
	"age_expressions": {
		"early_childhood": {"opening_hook": "The Sun is a big warm ball of light."},
		"age_25": {"opening_hook": "The Sun is a main-sequence star."}
	},
	"tone_delivery_dna": {"grandmother": {"encouragement": "I'm so proud of you."}},
	"language_translations": {"spanish": {"title": "El Sol"}}
}`

const januaryYAML = `month: january
days:
  - day: 1
    date: "2025-01-01"
    title: "The Sun"
    learning_objective: "Understand solar energy"
  - day: 2
    title: "Water"
    learning_objective: "Learn the water cycle"
    examples:
      - "Rain fills rivers."
`

func TestMonthOf(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 0}, {31, 0}, {32, 1}, {59, 1}, {60, 2}, {181, 6}, {334, 10}, {335, 11}, {365, 11}, {366, 11},
	}
	for _, tt := range tests {
		got, err := MonthOf(tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "day %d", tt.day)
	}

	for _, bad := range []int{0, -1, 367} {
		_, err := MonthOf(bad)
		assert.Error(t, err, "day %d", bad)
	}
}

func TestFSLoader_DNAWinsOverCurriculum(t *testing.T) {
	fsys := fstest.MapFS{
		"dna/001_the_sun.json":               {Data: []byte(sunDNA)},
		"curriculum/january_curriculum.yaml": {Data: []byte(januaryYAML)},
	}
	l := NewFSLoader(fsys)

	src, err := l.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, lesson.KindDNA, src.Kind())
	assert.Equal(t, "The Sun", src.Title)
	assert.Equal(t, "Understand solar energy", src.LearningObjective)
	assert.Equal(t, "The Sun is a main-sequence star.", src.DNA.AgeExpressions["age_25"].Get("opening_hook"))
	assert.Empty(t, src.DNA.MissingFields())
}

func TestFSLoader_Curriculum(t *testing.T) {
	fsys := fstest.MapFS{
		"curriculum/january_curriculum.yaml": {Data: []byte(januaryYAML)},
	}
	l := NewFSLoader(fsys)

	src, err := l.Load(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, lesson.KindCurriculum, src.Kind())
	assert.Equal(t, 2, src.ID)
	assert.Equal(t, "Water", src.Curriculum.Topic)
	assert.Equal(t, "Learn the water cycle", src.Curriculum.Objective)
	assert.Equal(t, []string{"Rain fills rivers."}, src.Curriculum.Examples)
}

func TestFSLoader_JSONCurriculum(t *testing.T) {
	fsys := fstest.MapFS{
		"curriculum/december_curriculum.json": {Data: []byte(`{"month":"december","days":[{"day":366,"title":"Leap","learning_objective":"Count the extra day"}]}`)},
	}
	src, err := NewFSLoader(fsys).Load(context.Background(), 366)
	require.NoError(t, err)
	assert.Equal(t, "Leap", src.Title)
}

func TestFSLoader_NotFound(t *testing.T) {
	fsys := fstest.MapFS{
		"curriculum/january_curriculum.yaml": {Data: []byte(januaryYAML)},
	}
	l := NewFSLoader(fsys)

	for _, day := range []int{0, 3, 45, 367, -5} {
		_, err := l.Load(context.Background(), day)
		require.Error(t, err, "day %d", day)
		assert.True(t, errors.Is(err, lesson.ErrSourceNotFound), "day %d: %v", day, err)
	}
}

func TestFSLoader_MalformedDNAFallsBackToCurriculum(t *testing.T) {
	fsys := fstest.MapFS{
		"dna/001_broken.json":                {Data: []byte(`{"day": "not a number"`)},
		"curriculum/january_curriculum.yaml": {Data: []byte(januaryYAML)},
	}
	src, err := NewFSLoader(fsys).Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, lesson.KindCurriculum, src.Kind())
}

// originalDNA nests language metadata and key phrases the way authored DNA
// files do.
const originalDNA = `{
	"lesson_id": "the-sun",
	"day": 1,
	"date": "January 1",
	"universal_concept": "Energy flows from the Sun.",
	"core_principle": "Light is energy.",
	"learning_essence": "Understand solar energy",
	"age_expressions": {"age_5": {"opening_hook": "The Sun is warm."}},
	"tone_delivery_dna": {
		"fun": {
			"voice_character": "playful",
			"language_patterns": {"openings": ["Whoa!"]}
		}
	},
	"language_translations": {
		"english": {
			"language_code": "en",
			"language_name": "English",
			"native_display": "English",
			"key_phrases": {"greeting": "Welcome back!", "closing": "See you tomorrow!"}
		}
	}
}`

func TestFSLoader_NestedLanguageTranslations(t *testing.T) {
	fsys := fstest.MapFS{
		"dna/001_the_sun.json": {Data: []byte(originalDNA)},
	}
	src, err := NewFSLoader(fsys).Load(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, lesson.KindDNA, src.Kind())
	assert.Empty(t, src.DNA.MissingFields())
	assert.Equal(t, "The Sun is warm.", src.DNA.AgeExpressions["age_5"].Get("opening_hook"))

	en := src.DNA.LanguageTranslations["english"]
	assert.Equal(t, "en", en.LanguageCode)
	assert.Equal(t, "Welcome back!", en.KeyPhrases.Greeting)
}

func TestFSLoader_PartialDNAIsServed(t *testing.T) {
	fsys := fstest.MapFS{
		"dna/007_partial.yaml": {Data: []byte("title: Partial\nage_expressions:\n  youth:\n    opening_hook: Hi\n")},
	}
	src, err := NewFSLoader(fsys).Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, lesson.KindDNA, src.Kind())
	assert.Contains(t, src.DNA.MissingFields(), "core_principle")
}

func TestFSLoader_MalformedCurriculumIsError(t *testing.T) {
	fsys := fstest.MapFS{
		"curriculum/january_curriculum.json": {Data: []byte(`{`)},
	}
	_, err := NewFSLoader(fsys).Load(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, lesson.ErrSourceNotFound))
}

func TestFSLoader_ConcurrentLoads(t *testing.T) {
	fsys := fstest.MapFS{
		"curriculum/january_curriculum.yaml": {Data: []byte(januaryYAML)},
	}
	l := NewFSLoader(fsys)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src, err := l.Load(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, "The Sun", src.Title)
		}()
	}
	wg.Wait()
}

func TestBuiltin(t *testing.T) {
	l := Builtin()

	src, err := l.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "The Sun - Our Star", src.Title)
	assert.Equal(t, "2025-01-01", src.Curriculum.Date)

	src, err = l.Load(context.Background(), 366)
	require.NoError(t, err)
	assert.NotEmpty(t, src.Title)
}

type stubLoader struct {
	src *lesson.Source
	err error
}

func (s stubLoader) Load(context.Context, int) (*lesson.Source, error) { return s.src, s.err }

func TestChain(t *testing.T) {
	found := &lesson.Source{ID: 5, Title: "Found"}
	notFound := stubLoader{err: lesson.NotFound(5, nil)}
	broken := stubLoader{err: errors.New("disk error")}

	src, err := Chain(notFound, nil, stubLoader{src: found}).Load(context.Background(), 5)
	require.NoError(t, err)
	assert.Same(t, found, src)

	_, err = Chain(broken, stubLoader{src: found}).Load(context.Background(), 5)
	assert.EqualError(t, err, "disk error")

	_, err = Chain(notFound, notFound).Load(context.Background(), 5)
	assert.ErrorIs(t, err, lesson.ErrSourceNotFound)

	_, err = Chain().Load(context.Background(), 5)
	assert.ErrorIs(t, err, lesson.ErrSourceNotFound)
}
