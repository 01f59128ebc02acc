package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ilearnhow/lessonsynth/internal/store"
)

// UsageSource reports token usage per model since a point in time.
type UsageSource interface {
	LLMUsageByModel(ctx context.Context, since time.Time) ([]store.ModelUsage, error)
}

// BudgetProvider refuses requests once the estimated spend over the last
// 24 hours reaches the budget. Models missing from the pricing table count
// as free.
type BudgetProvider struct {
	inner     Provider
	usage     UsageSource
	budgetUSD float64
	now       func() time.Time
}

// WithBudget wraps a Provider with a daily spend cap.
func WithBudget(p Provider, usage UsageSource, budgetUSD float64) *BudgetProvider {
	return &BudgetProvider{inner: p, usage: usage, budgetUSD: budgetUSD, now: time.Now}
}

func (b *BudgetProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	spent, err := b.Spent(ctx)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("check budget: %w", err)}
	}
	if spent >= b.budgetUSD {
		return nil, &ErrBudgetExceeded{SpentUSD: spent, BudgetUSD: b.budgetUSD}
	}
	return b.inner.Generate(ctx, req)
}

func (b *BudgetProvider) ModelID() string {
	return b.inner.ModelID()
}

// Spent returns the estimated USD spent in the last 24 hours.
func (b *BudgetProvider) Spent(ctx context.Context) (float64, error) {
	usage, err := b.usage.LLMUsageByModel(ctx, b.now().Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}
	return UsageCost(usage), nil
}

// UsageCost prices usage with the pricing table. Unknown models count as
// free.
func UsageCost(usage []store.ModelUsage) float64 {
	var total float64
	for _, u := range usage {
		if c := LookupCost(u.Model); c != nil {
			total += c.Cost(u.InputTokens, u.OutputTokens)
		}
	}
	return total
}

// Remaining returns the unspent budget, never negative.
func (b *BudgetProvider) Remaining(ctx context.Context) (float64, error) {
	spent, err := b.Spent(ctx)
	if err != nil {
		return 0, err
	}
	return max(b.budgetUSD-spent, 0), nil
}
