package params

import "math"

// Phase is a timed segment of a lesson.
type Phase string

const (
	PhaseOpening  Phase = "opening"
	PhaseQuestion Phase = "question"
	PhaseClosing  Phase = "closing"
	PhaseFortune  Phase = "fortune"
)

// Phases lists the phases in playback order.
var Phases = []Phase{PhaseOpening, PhaseQuestion, PhaseClosing, PhaseFortune}

var phaseBaseSeconds = map[Phase]float64{
	PhaseOpening:  30,
	PhaseQuestion: 45,
	PhaseClosing:  25,
	PhaseFortune:  15,
}

func ageMultiplier(age int) float64 {
	switch BucketAge(age) {
	case EarlyChildhood:
		return 1.5
	case Youth:
		return 1.2
	case YoungAdult:
		return 1.0
	case Midlife:
		return 0.9
	default:
		return 0.8
	}
}

// PhaseDuration is the display duration in seconds of one phase for a
// learner of the given age. Unknown phases use the opening base.
func PhaseDuration(phase Phase, age int) int {
	base, ok := phaseBaseSeconds[phase]
	if !ok {
		base = phaseBaseSeconds[PhaseOpening]
	}
	return int(math.Round(base * ageMultiplier(age)))
}

// ComplexityLabel describes content complexity for an age.
func ComplexityLabel(age int) string {
	switch BucketAge(age) {
	case EarlyChildhood:
		return "very_simple"
	case Youth:
		return "simple"
	case YoungAdult:
		return "moderate"
	case Midlife:
		return "complex"
	default:
		return "very_complex"
	}
}

var toneEngagement = map[Tone]int{
	Grandmother: 80,
	Fun:         90,
	Neutral:     70,
}

func ageEngagement(age int) int {
	switch BucketAge(age) {
	case EarlyChildhood:
		return 95
	case Youth:
		return 85
	case YoungAdult:
		return 75
	case Midlife:
		return 65
	default:
		return 55
	}
}

// EngagementScore averages the age and tone engagement scores.
func EngagementScore(age int, tone Tone) int {
	t, ok := toneEngagement[tone]
	if !ok {
		t = toneEngagement[Neutral]
	}
	return int(math.Round(float64(ageEngagement(age)+t) / 2))
}
