package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics. Record methods are
// nil-safe: a nil receiver disables instrumentation.
type PrometheusMetrics struct {
	// Run metrics
	RunsTotal *prometheus.CounterVec

	// Model call metrics
	ModelCallsTotal  *prometheus.CounterVec
	LatencyHistogram *prometheus.HistogramVec

	// Token metrics
	TokensInputTotal  *prometheus.CounterVec
	TokensOutputTotal *prometheus.CounterVec

	// Evaluation metrics
	EvaluationsTotal *prometheus.CounterVec
	QuestionScore    *prometheus.HistogramVec

	// Judge cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalbench_runs_total",
				Help: "Total number of benchmark runs by terminal status",
			},
			[]string{"model", "status"},
		),

		ModelCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalbench_model_calls_total",
				Help: "Total number of model calls",
			},
			[]string{"family", "operation", "status"},
		),

		LatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evalbench_model_call_seconds",
				Help:    "Model call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"family", "operation"},
		),

		TokensInputTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalbench_tokens_input_total",
				Help: "Total number of input tokens processed",
			},
			[]string{"family"},
		),

		TokensOutputTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalbench_tokens_output_total",
				Help: "Total number of output tokens generated",
			},
			[]string{"family"},
		),

		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalbench_evaluations_total",
				Help: "Total number of question evaluations by outcome",
			},
			[]string{"scenario", "status"},
		),

		QuestionScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evalbench_question_score",
				Help:    "Per-question rubric total (0-25)",
				Buckets: prometheus.LinearBuckets(0, 5, 6),
			},
			[]string{"scenario"},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evalbench_judge_cache_hits_total",
				Help: "Total number of judge-reply cache hits",
			},
		),

		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evalbench_judge_cache_misses_total",
				Help: "Total number of judge-reply cache misses",
			},
		),
	}
}

// RecordRun records a finished run
func (m *PrometheusMetrics) RecordRun(model, status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(model, status).Inc()
}

// RecordModelCall records a model call with its latency
func (m *PrometheusMetrics) RecordModelCall(family, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ModelCallsTotal.WithLabelValues(family, operation, status).Inc()
	m.LatencyHistogram.WithLabelValues(family, operation).Observe(duration.Seconds())
}

// RecordTokens records token metrics
func (m *PrometheusMetrics) RecordTokens(family string, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	if inputTokens > 0 {
		m.TokensInputTotal.WithLabelValues(family).Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.TokensOutputTotal.WithLabelValues(family).Add(float64(outputTokens))
	}
}

// RecordEvaluation records a completed evaluation and its score
func (m *PrometheusMetrics) RecordEvaluation(scenario string, total int) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(scenario, "completed").Inc()
	m.QuestionScore.WithLabelValues(scenario).Observe(float64(total))
}

// RecordSkipped records a skipped question
func (m *PrometheusMetrics) RecordSkipped(scenario string) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(scenario, "skipped").Inc()
}

// RecordCacheHit records a judge cache hit
func (m *PrometheusMetrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a judge cache miss
func (m *PrometheusMetrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}
