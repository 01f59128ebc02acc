package synth

import "github.com/ilearnhow/lessonsynth/internal/llm"

// LessonSchema is the JSON schema generated lessons must satisfy.
var LessonSchema = &llm.Schema{
	Name:        "daily-lesson",
	Description: "A short narrated lesson with an opening, three two-choice questions, a closing and a fortune",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"opening": map[string]any{
				"type":        "string",
				"description": "Hook that introduces the topic (2-3 sentences)",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type": "string",
						},
						"choices": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
							"maxItems": 2,
						},
						"correct_index": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": 1,
						},
						"feedback": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
							"maxItems": 2,
						},
					},
					"required":             []any{"question", "choices", "correct_index", "feedback"},
					"additionalProperties": false,
				},
			},
			"closing": map[string]any{
				"type":        "string",
				"description": "Summary of what was learned (1-2 sentences)",
			},
			"fortune": map[string]any{
				"type":        "string",
				"description": "One short motivational sentence",
			},
		},
		"required":             []any{"opening", "questions", "closing", "fortune"},
		"additionalProperties": false,
	},
}

// generatedLesson mirrors LessonSchema.
type generatedLesson struct {
	Opening   string              `json:"opening"`
	Questions []generatedQuestion `json:"questions"`
	Closing   string              `json:"closing"`
	Fortune   string              `json:"fortune"`
}

type generatedQuestion struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
	Feedback     []string `json:"feedback"`
}
