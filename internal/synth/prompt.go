package synth

import (
	"fmt"
	"strings"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

const lessonSystemPrompt = `You are an expert educational content creator writing short daily lessons for a narrated lesson player. Lessons are spoken aloud by an avatar, so write in plain conversational sentences without markup.`

// PromptInput is what the curriculum path tells a generator about a lesson.
type PromptInput struct {
	Title     string
	Objective string
	Bucket    params.AgeBucket
	Tone      params.Tone
}

func buildLessonUserMessage(in PromptInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", in.Title))
	b.WriteString(fmt.Sprintf("Learning objective: %s\n", in.Objective))
	b.WriteString(fmt.Sprintf("Audience: %s\n", params.AgeRangeDescription(in.Bucket)))
	b.WriteString(fmt.Sprintf("Tone: %s\n", params.ToneDescription(in.Tone)))

	b.WriteString(`
Instructions:
Create a lesson with these parts:
1. "opening": a 2-3 sentence hook that introduces the topic by name.
2. "questions": exactly 3 questions. Each has exactly 2 choices, the index (0 or 1) of the better choice as "correct_index", and exactly 2 feedback lines, one per choice, in the same order as the choices.
3. "closing": a 1-2 sentence summary of what was learned.
4. "fortune": one short motivational sentence to end the day.

Match the vocabulary to the audience and keep the tone consistent throughout.

Return JSON shaped like:
{"opening": "...", "questions": [{"question": "...", "choices": ["...", "..."], "correct_index": 0, "feedback": ["...", "..."]}], "closing": "...", "fortune": "..."}`)

	return b.String()
}
