// Package preview renders a synthesized lesson for the terminal.
package preview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/params"
	"github.com/ilearnhow/lessonsynth/internal/ui/theme"
)

// DefaultWidth is used when the caller passes a non-positive width.
const DefaultWidth = 80

var choiceLabels = [2]string{"A", "B"}

// Render lays out l as a sequence of cards: header, narrated sections,
// questions, fortune and a timing bar.
func Render(l *lesson.Lesson, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - 4
	body := theme.Body.Width(inner)

	var b strings.Builder
	b.WriteString(header(l))
	b.WriteString("\n\n")

	var sections []string
	for _, s := range sectionList(l) {
		if strings.TrimSpace(s.text) == "" {
			continue
		}
		sections = append(sections, theme.Heading.Render(s.name)+"\n"+body.Render(s.text))
	}
	b.WriteString(theme.Card.Width(width).Render(strings.Join(sections, "\n\n")))
	b.WriteString("\n")

	for i, q := range l.Questions {
		b.WriteString(theme.Card.Width(width).Render(question(i, q, inner)))
		b.WriteString("\n")
	}

	if l.Fortune != "" {
		b.WriteString(theme.Hint.Width(width).Render("✦ " + l.Fortune))
		b.WriteString("\n\n")
	}

	b.WriteString(timing(l.Metadata, len(l.Questions), width))
	b.WriteString("\n")
	return b.String()
}

func header(l *lesson.Lesson) string {
	m := l.Metadata
	title := theme.Title.Render(fmt.Sprintf("Day %d · %s", m.LessonID, l.Title))

	badges := []string{
		theme.Badge.Render(string(m.AgeBucket)),
		theme.Badge.Render(string(m.Tone)),
		theme.Badge.Render(m.Language.NativeName()),
		theme.Badge.Render(m.AvatarInfo.Name),
		theme.Badge.Render(m.Generator),
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(badges, " "))
	if m.UsedFallback {
		line += "  " + theme.Degraded.Render("fallback")
	}
	sub := theme.Subtitle.Render(fmt.Sprintf("%s · engagement %d/10 · %s", m.Complexity, m.EngagementScore, m.Slug))
	return lipgloss.JoinVertical(lipgloss.Left, title, line, sub)
}

type namedSection struct {
	name string
	text string
}

func sectionList(l *lesson.Lesson) []namedSection {
	s := l.Sections
	return []namedSection{
		{"Introduction", s.Introduction},
		{"Concept", s.Concept},
		{"Objective", s.Objective},
		{"Examples", s.Examples},
		{"Reflection", s.Reflection},
		{"Conclusion", s.Conclusion},
		{"Encouragement", s.Encouragement},
	}
}

func question(i int, q lesson.Question, width int) string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width)
	s := questionStyle.Render(fmt.Sprintf("Q%d. %s", i+1, q.Text)) + "\n"

	for j, choice := range q.Choices {
		mark := "  "
		style := theme.Body
		if j == q.CorrectChoiceIndex {
			mark = "✓ "
			style = theme.Correct
		}
		s += "\n" + style.Render(fmt.Sprintf("%s%s) %s", mark, choiceLabels[j], choice))
		if fb := q.Feedback[j]; fb != "" {
			fbStyle := theme.Incorrect
			if j == q.CorrectChoiceIndex {
				fbStyle = theme.Hint
			}
			s += "\n" + fbStyle.Render("     "+fb)
		}
	}
	return s
}

// timing draws one segment per phase, sized by its share of the total.
func timing(m lesson.Metadata, questions, width int) string {
	if m.TotalDuration <= 0 {
		return ""
	}
	barWidth := max(width-len("Timing  ")-8, 10)

	var bar strings.Builder
	var legend []string
	used := 0
	for i, ph := range params.Phases {
		secs := m.Durations[ph]
		if ph == params.PhaseQuestion {
			secs *= questions
		}
		n := barWidth * secs / m.TotalDuration
		if i == len(params.Phases)-1 {
			n = barWidth - used
		}
		used += n
		style := theme.ProgressEmpty
		if i%2 == 0 {
			style = theme.ProgressFilled
		}
		bar.WriteString(style.Render(strings.Repeat(" ", max(n, 0))))
		legend = append(legend, fmt.Sprintf("%s %ds", ph, secs))
	}

	return theme.Body.Render("Timing  ") + bar.String() +
		theme.Subtitle.Render(fmt.Sprintf(" %ds", m.TotalDuration)) + "\n" +
		theme.Hint.Render(strings.Join(legend, " · "))
}
