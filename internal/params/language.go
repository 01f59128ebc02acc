package params

import "strings"

// Language is a supported lesson language, identified by its English name.
type Language string

const (
	English    Language = "english"
	Spanish    Language = "spanish"
	French     Language = "french"
	German     Language = "german"
	Italian    Language = "italian"
	Portuguese Language = "portuguese"
	Mandarin   Language = "mandarin"
	Japanese   Language = "japanese"
	Arabic     Language = "arabic"
	Hindi      Language = "hindi"
	Russian    Language = "russian"
	Dutch      Language = "dutch"
)

type languageInfo struct {
	lang    Language
	code    string
	native  string
	phrases KeyPhrases
}

// KeyPhrases are short localized phrases used around lesson content.
type KeyPhrases struct {
	Greeting           string `json:"greeting" yaml:"greeting"`
	Encouragement      string `json:"encouragement" yaml:"encouragement"`
	Transition         string `json:"transition" yaml:"transition"`
	Closing            string `json:"closing" yaml:"closing"`
	QuestionIntro      string `json:"question_intro" yaml:"question_intro"`
	ChoicePrompt       string `json:"choice_prompt" yaml:"choice_prompt"`
	ValidationPositive string `json:"validation_positive" yaml:"validation_positive"`
	ValidationRedirect string `json:"validation_redirect" yaml:"validation_redirect"`
}

var languages = []languageInfo{
	{English, "en", "English", KeyPhrases{
		"Welcome back!", "Great thinking!", "Now let's explore", "See you tomorrow!",
		"Here's an interesting question:", "What do you think?", "Excellent insight!", "Let's think about this differently:",
	}},
	{Spanish, "es", "Español", KeyPhrases{
		"¡Bienvenido de nuevo!", "¡Excelente pensamiento!", "Ahora exploremos", "¡Hasta mañana!",
		"Aquí hay una pregunta interesante:", "¿Qué piensas?", "¡Excelente percepción!", "Pensemos en esto de manera diferente:",
	}},
	{French, "fr", "Français", KeyPhrases{
		"Bon retour !", "Excellente réflexion !", "Maintenant explorons", "À demain !",
		"Voici une question intéressante :", "Qu'en pensez-vous ?", "Excellente perspicacité !", "Pensons à cela différemment :",
	}},
	{German, "de", "Deutsch", KeyPhrases{
		"Willkommen zurück!", "Ausgezeichnetes Denken!", "Jetzt erkunden wir", "Bis morgen!",
		"Hier ist eine interessante Frage:", "Was denkst du?", "Ausgezeichnete Einsicht!", "Lass uns das anders denken:",
	}},
	{Italian, "it", "Italiano", KeyPhrases{
		"Bentornato!", "Eccellente pensiero!", "Ora esploriamo", "A domani!",
		"Ecco una domanda interessante:", "Cosa ne pensi?", "Eccellente intuizione!", "Pensiamoci in modo diverso:",
	}},
	{Portuguese, "pt", "Português", KeyPhrases{
		"Bem-vindo de volta!", "Excelente pensamento!", "Agora vamos explorar", "Até amanhã!",
		"Aqui está uma pergunta interessante:", "O que você acha?", "Excelente percepção!", "Vamos pensar nisso de forma diferente:",
	}},
	{Mandarin, "zh", "中文", KeyPhrases{
		"欢迎回来！", "很好的思考！", "现在让我们探索", "明天见！",
		"这里有一个有趣的问题：", "你觉得呢？", "很好的见解！", "让我们换个角度思考：",
	}},
	{Japanese, "ja", "日本語", KeyPhrases{
		"おかえりなさい！", "素晴らしい思考です！", "今度は探求しましょう", "また明日！",
		"ここに興味深い質問があります：", "どう思いますか？", "素晴らしい洞察です！", "別の角度から考えてみましょう：",
	}},
	{Arabic, "ar", "العربية", KeyPhrases{
		"مرحباً بعودتك!", "تفكير ممتاز!", "الآن دعنا نستكشف", "أراك غداً!",
		"إليك سؤال مثير للاهتمام:", "ماذا تعتقد؟", "رؤية ممتازة!", "دعنا نفكر في هذا بطريقة مختلفة:",
	}},
	{Hindi, "hi", "हिंदी", KeyPhrases{
		"वापस आने पर स्वागत है!", "बहुत अच्छा सोचा!", "अब आइए खोजें", "कल मिलते हैं!",
		"यहाँ एक दिलचस्प सवाल है:", "आप क्या सोचते हैं?", "उत्कृष्ट अंतर्दृष्टि!", "इसे अलग तरीके से सोचते हैं:",
	}},
	{Russian, "ru", "Русский", KeyPhrases{
		"Добро пожаловать обратно!", "Отличное мышление!", "Теперь давайте исследуем", "До завтра!",
		"Вот интересный вопрос:", "Что вы думаете?", "Отличное понимание!", "Давайте подумаем об этом по-другому:",
	}},
	{Dutch, "nl", "Nederlands", KeyPhrases{
		"Welkom terug!", "Uitstekend denken!", "Laten we nu verkennen", "Tot morgen!",
		"Hier is een interessante vraag:", "Wat denk je?", "Uitstekend inzicht!", "Laten we hier anders over nadenken:",
	}},
}

// languageAliases accepts common alternate names.
var languageAliases = map[string]Language{
	"chinese": Mandarin,
	"zh-cn":   Mandarin,
	"zh-hans": Mandarin,
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	for i, l := range languages {
		out[i] = l.lang
	}
	return out
}

// NormalizeLanguage maps a language name or ISO code (optionally with a
// region suffix such as "en-US") to a supported language. Unknown input is
// English.
func NormalizeLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if l, ok := languageAliases[s]; ok {
		return l
	}
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	for _, l := range languages {
		if s == string(l.lang) || s == l.code {
			return l.lang
		}
	}
	return English
}

func (l Language) info() languageInfo {
	for _, li := range languages {
		if li.lang == l {
			return li
		}
	}
	return languages[0]
}

// Code returns the ISO 639-1 code.
func (l Language) Code() string { return l.info().code }

// NativeName returns the language's name written in itself.
func (l Language) NativeName() string { return l.info().native }

// Phrases returns the localized key phrases for l.
func (l Language) Phrases() KeyPhrases { return l.info().phrases }

// Overlay returns k with every non-empty phrase of o applied on top.
func (k KeyPhrases) Overlay(o KeyPhrases) KeyPhrases {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return KeyPhrases{
		Greeting:           pick(k.Greeting, o.Greeting),
		Encouragement:      pick(k.Encouragement, o.Encouragement),
		Transition:         pick(k.Transition, o.Transition),
		Closing:            pick(k.Closing, o.Closing),
		QuestionIntro:      pick(k.QuestionIntro, o.QuestionIntro),
		ChoicePrompt:       pick(k.ChoicePrompt, o.ChoicePrompt),
		ValidationPositive: pick(k.ValidationPositive, o.ValidationPositive),
		ValidationRedirect: pick(k.ValidationRedirect, o.ValidationRedirect),
	}
}
