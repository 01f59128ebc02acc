package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// EventStore records requests and reports usage for the budget guard.
type EventStore interface {
	EventRecorder
	UsageSource
}

// ErrDisabled is returned by NewProvider when generation is turned off.
var ErrDisabled = errors.New("llm generation disabled")

// NewProvider creates a Provider from configuration, wrapped as
//
//	caller → budget → timeout → retry → logging → base
//
// The budget guard is skipped when cfg.DailyBudgetUSD is zero.
func NewProvider(ctx context.Context, cfg Config, events EventStore, log *zap.Logger) (Provider, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if events != nil {
		p = WithLogging(p, events, log)
	}
	p = WithRetry(p, cfg.Retry)
	p = WithTimeout(p, cfg.Timeout)
	if cfg.DailyBudgetUSD > 0 && events != nil {
		p = WithBudget(p, events, cfg.DailyBudgetUSD)
	}
	return p, nil
}
