package providers

import (
	"context"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/cache"
	"github.com/snow-ghost/evalbench/pkg/metrics"
)

// CachedAdapter serves repeated scoring prompts from a reply cache.
// Only Evaluate is cached: conversation turns depend on live history
// and caching them would falsify the benchmark.
type CachedAdapter struct {
	inner   core.ModelAdapter
	cache   *cache.ReplyCache
	metrics *metrics.PrometheusMetrics
}

// WithEvalCache wraps inner with a judge-reply cache. m may be nil.
func WithEvalCache(inner core.ModelAdapter, c *cache.ReplyCache, m *metrics.PrometheusMetrics) *CachedAdapter {
	return &CachedAdapter{inner: inner, cache: c, metrics: m}
}

// RunScenario passes through to the wrapped adapter.
func (a *CachedAdapter) RunScenario(ctx context.Context, messages []core.Message) (core.ChatResult, error) {
	return a.inner.RunScenario(ctx, messages)
}

// Evaluate returns a cached reply when the identical prompt has been
// judged before, otherwise calls through and stores the result.
func (a *CachedAdapter) Evaluate(ctx context.Context, prompt string) (string, error) {
	if reply, ok := a.cache.Get(prompt); ok {
		a.metrics.RecordCacheHit()
		return reply, nil
	}
	a.metrics.RecordCacheMiss()

	reply, err := a.inner.Evaluate(ctx, prompt)
	if err != nil {
		return "", err
	}
	a.cache.Set(prompt, reply)
	return reply, nil
}
