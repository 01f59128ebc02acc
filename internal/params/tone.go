package params

import "strings"

// Tone is the emotional delivery style of a lesson.
type Tone string

const (
	Grandmother Tone = "grandmother"
	Fun         Tone = "fun"
	Neutral     Tone = "neutral"
)

// Tones lists the supported tones.
var Tones = []Tone{Grandmother, Fun, Neutral}

// NormalizeTone maps s to a supported tone. Matching ignores case and
// surrounding whitespace; anything else is Neutral.
func NormalizeTone(s string) Tone {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case Grandmother:
		return Grandmother
	case Fun:
		return Fun
	default:
		return Neutral
	}
}

// ToneDescription describes the delivery style for a generator prompt.
func ToneDescription(t Tone) string {
	switch t {
	case Grandmother:
		return "warm, nurturing, and caring"
	case Fun:
		return "energetic, playful, and exciting"
	default:
		return "clear, direct, and balanced"
	}
}
