package lesson

import (
	"time"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Lesson is a synthesized lesson. It is never mutated after creation.
type Lesson struct {
	Title     string     `json:"title"`
	Sections  Sections   `json:"sections"`
	Questions []Question `json:"questions"`
	Fortune   string     `json:"fortune"`
	Metadata  Metadata   `json:"metadata"`
}

// Sections holds the narrated prose of a lesson.
type Sections struct {
	Introduction  string `json:"introduction"`
	Concept       string `json:"concept"`
	Objective     string `json:"objective"`
	Examples      string `json:"examples"`
	Reflection    string `json:"reflection"`
	Conclusion    string `json:"conclusion"`
	Encouragement string `json:"encouragement"`
}

// Question is a two-choice prompt with feedback for each choice.
type Question struct {
	Text               string    `json:"question"`
	Choices            [2]string `json:"choices"`
	CorrectChoiceIndex int       `json:"correctChoiceIndex"`
	Feedback           [2]string `json:"feedback"`
	Expression         string    `json:"expression,omitempty"`
}

// Metadata describes how a lesson was produced. None of it drives control
// flow.
type Metadata struct {
	LessonID        int                  `json:"lessonId"`
	Slug            string               `json:"slug"`
	SourceKind      Kind                 `json:"sourceKind"`
	AgeBucket       params.AgeBucket     `json:"ageBucket"`
	FineAge         int                  `json:"fineAge"`
	Tone            params.Tone          `json:"tone"`
	Language        params.Language      `json:"language"`
	Avatar          params.Avatar        `json:"avatar"`
	Complexity      string               `json:"complexity"`
	Durations       map[params.Phase]int `json:"durations"`
	TotalDuration   int                  `json:"totalDuration"`
	EngagementScore int                  `json:"engagementScore"`
	AvatarInfo      params.AvatarInfo    `json:"avatarInfo"`
	Phrases         params.KeyPhrases    `json:"phrases"`
	UsedFallback    bool                 `json:"usedFallback"`
	Generator       string               `json:"generator"`
	GenerationID    string               `json:"generationId,omitempty"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}

// Generator labels recorded in Metadata.Generator.
const (
	GeneratorDNA      = "dna"
	GeneratorLLM      = "llm"
	GeneratorTemplate = "template"
)
