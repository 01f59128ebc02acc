package synth

import (
	"strings"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Replacement is one literal, case-sensitive substitution.
type Replacement struct {
	From string
	To   string
}

// ReplacementTable is applied in order; each pair replaces every occurrence.
type ReplacementTable []Replacement

// Apply runs the table over text.
func (t ReplacementTable) Apply(text string) string {
	for _, r := range t {
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}

var ageReplacements = map[params.AgeBucket]ReplacementTable{
	params.EarlyChildhood: {
		{"complex", "simple"},
		{"advanced", "basic"},
		{"sophisticated", "fun"},
	},
	params.Youth: {
		{"you should", "you might want to"},
		{"you must", "you could try"},
	},
	params.YoungAdult: {
		{"simple", "straightforward"},
		{"basic", "fundamental"},
	},
	params.Midlife: {
		{"new", "valuable"},
		{"simple", "practical"},
	},
	params.WisdomYears: {
		{"new", "meaningful"},
		{"simple", "profound"},
	},
}

var toneReplacements = map[params.Tone]ReplacementTable{
	params.Grandmother: {
		{"Hello", "Hello, dear"},
		{"Welcome", "Welcome, sweetheart"},
		{"Great", "Wonderful, dear"},
	},
	params.Fun: {
		{"Hello", "Hey there!"},
		{"Welcome", "Welcome to the fun!"},
		{"Great", "Awesome!"},
	},
	params.Neutral: nil,
}

// AgeReplacements returns the substitution table for a bucket.
func AgeReplacements(b params.AgeBucket) ReplacementTable { return ageReplacements[b] }

// ToneReplacements returns the substitution table for a tone.
func ToneReplacements(t params.Tone) ReplacementTable { return toneReplacements[t] }
