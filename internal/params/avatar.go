package params

import "strings"

// Avatar is the on-screen presenter.
type Avatar string

const (
	Kelly Avatar = "kelly"
	Ken   Avatar = "ken"
)

// Voice IDs used by the text-to-speech collaborator.
const (
	kellyVoiceID = "wAdymQH5YucAkXwmrdL0"
	kenVoiceID   = "fwrgq8CiDS7IPcDlFxgd"
)

// NormalizeAvatar maps s to a supported avatar. An empty or unknown value is
// implied by tone: grandmother lessons are presented by Kelly, others by Ken.
func NormalizeAvatar(s string, tone Tone) Avatar {
	switch Avatar(strings.ToLower(strings.TrimSpace(s))) {
	case Kelly:
		return Kelly
	case Ken:
		return Ken
	}
	if tone == Grandmother {
		return Kelly
	}
	return Ken
}

// VoiceID returns the TTS voice for the avatar.
func (a Avatar) VoiceID() string {
	if a == Kelly {
		return kellyVoiceID
	}
	return kenVoiceID
}

// AvatarInfo is display and voice metadata for the presenter of a lesson.
type AvatarInfo struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	VoiceID     string `json:"voiceId"`
	Expression  string `json:"expression"`
}

// InfoFor returns presenter metadata for the tone and chosen avatar.
func InfoFor(tone Tone, avatar Avatar) AvatarInfo {
	info := AvatarInfo{
		Name:       displayName(avatar),
		VoiceID:    avatar.VoiceID(),
		Expression: ToneExpression(tone),
	}
	switch tone {
	case Grandmother:
		info.Emoji, info.Description = "👵", "Wise & Caring"
	case Fun:
		info.Emoji, info.Description = "🎉", "Energetic & Playful"
	default:
		info.Emoji, info.Description = "🎓", "Clear & Educational"
	}
	return info
}

func displayName(a Avatar) string {
	if a == Kelly {
		return "Kelly"
	}
	return "Ken"
}

// Avatar expressions for lesson parts.
const (
	ExpressionWarm        = "warm_smiling"
	ExpressionCelebrating = "happy_celebrating"
	ExpressionNeutral     = "neutral_default"
	ExpressionCurious     = "question_curious"
	ExpressionExplaining  = "teaching_explaining"
	ExpressionThinking    = "concerned_thinking"
)

// ToneExpression is the resting expression for opening and closing parts.
func ToneExpression(t Tone) string {
	switch t {
	case Grandmother:
		return ExpressionWarm
	case Fun:
		return ExpressionCelebrating
	default:
		return ExpressionNeutral
	}
}

var questionExpressions = []string{ExpressionCurious, ExpressionExplaining, ExpressionThinking}

// QuestionExpression returns the expression for the i-th question (0-based).
func QuestionExpression(i int) string {
	if i < 0 {
		i = -i
	}
	return questionExpressions[i%len(questionExpressions)]
}
