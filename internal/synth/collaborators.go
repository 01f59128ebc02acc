package synth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Prompt is a structured generation request.
type Prompt struct {
	System string
	User   string
	Schema *llm.Schema
}

// Generator produces lesson JSON for a prompt. The result is parsed and
// validated by the synthesizer, so implementations may return anything.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (json.RawMessage, error)
}

// Translator translates lesson text into a target language.
type Translator interface {
	Translate(ctx context.Context, text string, target params.Language) (string, error)
}

// GeneratorConfig holds generation request settings.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns defaults sized for a three-question lesson.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// LLMGenerator is a Generator backed by an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewLLMGenerator creates a generator using provider.
func NewLLMGenerator(provider llm.Provider, cfg GeneratorConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, cfg: cfg}
}

func (g *LLMGenerator) Generate(ctx context.Context, p Prompt) (json.RawMessage, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLesson)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: p.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: p.User},
		},
		Schema:      p.Schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}
	return resp.Content, nil
}

// ModelID reports the backing model.
func (g *LLMGenerator) ModelID() string { return g.provider.ModelID() }
