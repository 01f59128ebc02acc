package synth

import (
	"strconv"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

// Lesson part names shared by DNA fragments and the built-in defaults.
const (
	partOpening       = "opening_hook"
	partContext       = "context_setting"
	partObjective     = "learning_objective"
	partExamples      = "examples"
	partSummary       = "closing_summary"
	partReflection    = "reflection_prompt"
	partEncouragement = "encouragement"
	partFortune       = "daily_fortune"
)

// QuestionCount is the number of questions in every lesson.
const QuestionCount = 3

func questionPart(i int) string { return "question_" + strconv.Itoa(i+1) }
func choicesPart(i int) string  { return "choices_" + strconv.Itoa(i+1) }
func feedbackPart(i int) string { return "feedback_" + strconv.Itoa(i+1) }
func correctPart(i int) string  { return "correct_" + strconv.Itoa(i+1) }

// builtinFragments is the last level of the DNA fallback chain. Every part
// has a non-empty value.
var builtinFragments = lesson.Fragments{
	partOpening:       "Welcome to today's learning adventure!",
	partContext:       "Let's explore something amazing together.",
	partObjective:     "Today we'll discover new things!",
	partExamples:      "Look for this idea in the world around you today.",
	"question_1":      "What interests you most about this topic?",
	"choices_1":       "I want to learn more|I'm curious",
	"feedback_1":      "Great thinking! Let's explore further.",
	"question_2":      "How does this connect to your life?",
	"choices_2":       "It helps me understand|I see connections",
	"feedback_2":      "Excellent connections! You're making great insights.",
	"question_3":      "What would you like to explore next?",
	"choices_3":       "More about this topic|Practical applications",
	"feedback_3":      "Wonderful curiosity! Your learning journey continues.",
	partSummary:       "You've learned something amazing today!",
	partReflection:    "Think about what you discovered.",
	partEncouragement: "Keep exploring and asking questions!",
	partFortune:       "Your curiosity is your superpower. Keep learning and growing!",
}
