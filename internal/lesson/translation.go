package lesson

import (
	"encoding/json"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Translation is one entry of a DNA document's language table. Known keys
// are decoded into fields; any other string value lands in Strings.
type Translation struct {
	LanguageCode  string            `json:"language_code,omitempty" yaml:"language_code,omitempty"`
	LanguageName  string            `json:"language_name,omitempty" yaml:"language_name,omitempty"`
	NativeDisplay string            `json:"native_display,omitempty" yaml:"native_display,omitempty"`
	KeyPhrases    params.KeyPhrases `json:"key_phrases" yaml:"key_phrases"`
	Strings       map[string]string `json:"strings,omitempty" yaml:"strings,omitempty"`
}

// UnmarshalJSON decodes leniently: values of an unexpected shape are
// dropped instead of failing the enclosing document.
func (t *Translation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Translation{}
		return nil
	}
	var out Translation
	for k, v := range raw {
		if k == "key_phrases" {
			var kp params.KeyPhrases
			if err := json.Unmarshal(v, &kp); err == nil {
				out.KeyPhrases = kp
			}
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		out.set(k, s)
	}
	*t = out
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (t *Translation) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		*t = Translation{}
		return nil
	}
	var out Translation
	for k, v := range raw {
		if k == "key_phrases" {
			if m, ok := v.(map[string]any); ok {
				out.KeyPhrases = keyPhrasesFrom(m)
			}
			continue
		}
		if s, ok := v.(string); ok {
			out.set(k, s)
		}
	}
	*t = out
	return nil
}

func (t *Translation) set(k, v string) {
	switch k {
	case "language_code":
		t.LanguageCode = v
	case "language_name":
		t.LanguageName = v
	case "native_display":
		t.NativeDisplay = v
	default:
		if t.Strings == nil {
			t.Strings = make(map[string]string)
		}
		t.Strings[k] = v
	}
}

func keyPhrasesFrom(m map[string]any) params.KeyPhrases {
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return params.KeyPhrases{
		Greeting:           str("greeting"),
		Encouragement:      str("encouragement"),
		Transition:         str("transition"),
		Closing:            str("closing"),
		QuestionIntro:      str("question_intro"),
		ChoicePrompt:       str("choice_prompt"),
		ValidationPositive: str("validation_positive"),
		ValidationRedirect: str("validation_redirect"),
	}
}

// Translation returns the entry for lang, matched by language name or ISO
// code.
func (d *DNA) Translation(lang params.Language) (Translation, bool) {
	if d == nil || d.LanguageTranslations == nil {
		return Translation{}, false
	}
	if t, ok := d.LanguageTranslations[string(lang)]; ok {
		return t, true
	}
	t, ok := d.LanguageTranslations[lang.Code()]
	return t, ok
}
