// Package lesson defines the lesson source documents consumed by the
// synthesizer and the synthesized lesson it produces.
package lesson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which variant a Source carries.
type Kind string

const (
	KindDNA        Kind = "dna"
	KindCurriculum Kind = "curriculum"
)

// Source is one day's lesson input. Exactly one of DNA or Curriculum is
// normally set; DNA wins when both are.
type Source struct {
	ID                int         `json:"id"`
	Title             string      `json:"title"`
	LearningObjective string      `json:"learning_objective"`
	DNA               *DNA        `json:"dna,omitempty"`
	Curriculum        *Curriculum `json:"curriculum,omitempty"`
}

// Kind reports the variant used for synthesis.
func (s *Source) Kind() Kind {
	if s.DNA != nil {
		return KindDNA
	}
	return KindCurriculum
}

// Curriculum is the lightweight topic variant.
type Curriculum struct {
	Date       string   `json:"date,omitempty" yaml:"date,omitempty"`
	Topic      string   `json:"topic" yaml:"topic"`
	Objective  string   `json:"objective" yaml:"objective"`
	Concept    string   `json:"concept,omitempty" yaml:"concept,omitempty"`
	Examples   []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Reflection string   `json:"reflection,omitempty" yaml:"reflection,omitempty"`
}

// DNA is the rich variant carrying pre-authored fragments per age and tone.
type DNA struct {
	LessonID             string                 `json:"lesson_id" yaml:"lesson_id"`
	Day                  int                    `json:"day" yaml:"day"`
	Date                 string                 `json:"date" yaml:"date"`
	Title                string                 `json:"title,omitempty" yaml:"title,omitempty"`
	UniversalConcept     string                 `json:"universal_concept" yaml:"universal_concept"`
	CorePrinciple        string                 `json:"core_principle" yaml:"core_principle"`
	LearningEssence      string                 `json:"learning_essence" yaml:"learning_essence"`
	AgeExpressions       map[string]Fragments   `json:"age_expressions" yaml:"age_expressions"`
	ToneDelivery         map[string]Fragments   `json:"tone_delivery_dna" yaml:"tone_delivery_dna"`
	LanguageTranslations map[string]Translation `json:"language_translations" yaml:"language_translations"`
}

// RequiredDNAFields are the top-level keys a well-formed DNA file carries.
var RequiredDNAFields = []string{
	"lesson_id", "day", "date", "universal_concept", "core_principle",
	"learning_essence", "age_expressions", "tone_delivery_dna", "language_translations",
}

// MissingFields lists required fields that are empty in d.
func (d *DNA) MissingFields() []string {
	var missing []string
	check := func(name string, empty bool) {
		if empty {
			missing = append(missing, name)
		}
	}
	check("lesson_id", d.LessonID == "")
	check("day", d.Day == 0)
	check("date", d.Date == "")
	check("universal_concept", d.UniversalConcept == "")
	check("core_principle", d.CorePrinciple == "")
	check("learning_essence", d.LearningEssence == "")
	check("age_expressions", len(d.AgeExpressions) == 0)
	check("tone_delivery_dna", len(d.ToneDelivery) == 0)
	check("language_translations", len(d.LanguageTranslations) == 0)
	return missing
}

// Fragments maps a lesson part name (opening_hook, question_1, ...) to its
// text. Choice lists are stored joined by ChoiceSeparator.
type Fragments map[string]string

// ChoiceSeparator joins choice lists inside a Fragments value.
const ChoiceSeparator = "|"

// Get returns the trimmed value for part, or "" when absent.
func (f Fragments) Get(part string) string {
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f[part])
}

// Choices splits a choices_N value into its entries, dropping blanks.
func (f Fragments) Choices(part string) []string {
	raw := f.Get(part)
	if raw == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(raw, ChoiceSeparator) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// UnmarshalJSON accepts string, array-of-string and nested pattern values.
// Arrays become ChoiceSeparator-joined strings; other shapes are skipped so
// a partly malformed document still yields its usable parts.
func (f *Fragments) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fragments: %w", err)
	}
	out := make(Fragments, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = strings.Join(list, ChoiceSeparator)
		}
	}
	*f = out
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (f *Fragments) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("fragments: %w", err)
	}
	out := make(Fragments, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				if s, ok := p.(string); ok {
					parts = append(parts, s)
				}
			}
			out[k] = strings.Join(parts, ChoiceSeparator)
		}
	}
	*f = out
	return nil
}
