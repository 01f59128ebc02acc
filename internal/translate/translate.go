// Package translate implements lesson text translation on top of an LLM
// provider.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Schema is the structured output for a single translation.
var Schema = &llm.Schema{
	Name:        "translation",
	Description: "A translation of one piece of lesson text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The translated text",
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You translate short lesson texts for a daily learning app used by all ages.

Rules:
- Translate faithfully. Keep the meaning, warmth and register of the original.
- Keep names, numbers and punctuation style.
- Do not add explanations, notes or quotation marks.
- Return only the translated text in the "text" field.`

// Config holds translation request settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns settings for paragraph-sized texts.
func DefaultConfig() Config {
	return Config{MaxTokens: 512, Temperature: 0.2}
}

// LLMTranslator translates text with an llm.Provider.
type LLMTranslator struct {
	provider llm.Provider
	cfg      Config
}

// New creates a translator backed by provider.
func New(provider llm.Provider, cfg Config) *LLMTranslator {
	return &LLMTranslator{provider: provider, cfg: cfg}
}

type output struct {
	Text string `json:"text"`
}

// Translate returns text in the target language. English targets are
// returned unchanged without a provider call.
func (t *LLMTranslator) Translate(ctx context.Context, text string, target params.Language) (string, error) {
	if target == params.English || strings.TrimSpace(text) == "" {
		return text, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeTranslation)

	resp, err := t.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text, target)},
		},
		Schema:      Schema,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse translation: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("translate to %s: empty result", target)
	}
	return out.Text, nil
}

func buildUserMessage(text string, target params.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target language: %s (%s, code %s)\n\n", target.NativeName(), target, target.Code())
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}
