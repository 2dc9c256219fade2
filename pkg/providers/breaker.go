package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/snow-ghost/evalbench/core"
)

// BreakerAdapter wraps a ModelAdapter with a circuit breaker so a
// failing provider yields fast provider errors instead of hanging
// every remaining question. It never retries; a tripped breaker is just
// another per-question provider error for the runner to isolate.
type BreakerAdapter struct {
	inner core.ModelAdapter
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps inner in a circuit breaker named after the family.
func WithBreaker(name string, inner core.ModelAdapter) *BreakerAdapter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	})
	return &BreakerAdapter{inner: inner, cb: cb}
}

// RunScenario proxies to the wrapped adapter through the breaker.
func (b *BreakerAdapter) RunScenario(ctx context.Context, messages []core.Message) (core.ChatResult, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.RunScenario(ctx, messages)
	})
	if err != nil {
		return core.ChatResult{}, fmt.Errorf("model call failed (%s): %w", b.cb.Name(), err)
	}
	return out.(core.ChatResult), nil
}

// Evaluate proxies to the wrapped adapter through the breaker.
func (b *BreakerAdapter) Evaluate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.Evaluate(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("evaluation call failed (%s): %w", b.cb.Name(), err)
	}
	return out.(string), nil
}
