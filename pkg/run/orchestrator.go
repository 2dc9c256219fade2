// Package run drives a full benchmark run: scenario selection, adapter
// resolution, per-scenario execution and terminal bookkeeping.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/logging"
	"github.com/snow-ghost/evalbench/pkg/metrics"
	"github.com/snow-ghost/evalbench/pkg/providers"
	"github.com/snow-ghost/evalbench/pkg/rubric"
	"github.com/snow-ghost/evalbench/pkg/runner"
	"github.com/snow-ghost/evalbench/pkg/scenarios"
	"github.com/snow-ghost/evalbench/pkg/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Request describes one benchmark run to start.
type Request struct {
	Model        string   `json:"model"`
	ModelVersion string   `json:"modelVersion,omitempty"`
	ScenarioIDs  []string `json:"scenarioIds,omitempty"`
}

// Orchestrator owns the run lifecycle. It is safe for concurrent use:
// each Execute call works on its own run record and scenario set.
type Orchestrator struct {
	source   core.ScenarioSource
	store    core.EvalStore
	registry *providers.Registry
	logger   *logging.Logger
	metrics  *metrics.PrometheusMetrics
	tracer   *tracing.Tracer
}

// NewOrchestrator wires an orchestrator from its collaborators. metrics
// may be nil to disable instrumentation.
func NewOrchestrator(source core.ScenarioSource, store core.EvalStore, registry *providers.Registry, logger *logging.Logger, m *metrics.PrometheusMetrics) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		source:   source,
		store:    store,
		registry: registry,
		logger:   logger,
		metrics:  m,
	}
}

// SetTracer enables span emission for runs and scenarios.
func (o *Orchestrator) SetTracer(t *tracing.Tracer) {
	o.tracer = t
}

// Execute performs one benchmark run end to end. Progress events are
// emitted on sink after every completed question and the returned
// summary is the terminal object of the run. The adapter is resolved
// before the run record is created, so an unsupported model never
// leaves a dangling in_progress run behind.
//
// Per-question failures are absorbed by the runner and reported as
// skipped diagnostics in the summary; only run-level failures (scenario
// loading, adapter resolution, run bookkeeping, cancellation) return an
// error.
func (o *Orchestrator) Execute(ctx context.Context, req Request, sink core.EventSink) (core.RunSummary, error) {
	if req.Model == "" {
		return core.RunSummary{}, fmt.Errorf("model is required")
	}

	all, err := o.source.Load(ctx)
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("load scenarios: %w", err)
	}
	selected := scenarios.Filter(all, req.ScenarioIDs)
	if len(selected) == 0 {
		return core.RunSummary{}, fmt.Errorf("no scenarios matched %v", req.ScenarioIDs)
	}

	adapter, err := o.registry.Resolve(req.Model)
	if err != nil {
		return core.RunSummary{}, err
	}

	runID, err := o.store.CreateRun(ctx, req.Model, req.ModelVersion)
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("create run: %w", err)
	}

	log := o.logger.WithRun(runID)
	log.Info("run started",
		"model", req.Model,
		"version", req.ModelVersion,
		"scenarios", len(selected),
	)

	summary, err := o.drive(ctx, runID, req, adapter, selected, sink, log)
	if err != nil {
		o.markFailed(runID, log, err)
		if o.metrics != nil {
			o.metrics.RecordRun(req.Model, string(core.RunFailed))
		}
		return core.RunSummary{}, err
	}

	if o.metrics != nil {
		o.metrics.RecordRun(req.Model, string(core.RunCompleted))
	}
	return summary, nil
}

func (o *Orchestrator) drive(ctx context.Context, runID string, req Request, adapter core.ModelAdapter, selected []core.Scenario, sink core.EventSink, log *logging.Logger) (summary core.RunSummary, err error) {
	if o.tracer != nil {
		spanCtx, span := o.tracer.StartRunSpan(ctx, runID, req.Model, req.ModelVersion)
		defer func() {
			if err != nil {
				tracing.RecordSpanError(span, err)
			} else {
				tracing.RecordSpanSuccess(span)
			}
			span.End()
		}()
		ctx = spanCtx
	}

	totalQuestions := 0
	for _, sc := range selected {
		totalQuestions += len(sc.Questions)
	}

	r := runner.New(adapter, o.store, log, o.metrics, req.Model)

	var (
		totalScore int
		completed  int
		skipped    []core.QuestionOutcome
	)
	for _, sc := range selected {
		if err := ctx.Err(); err != nil {
			return core.RunSummary{}, fmt.Errorf("run aborted: %w", err)
		}

		scCtx := ctx
		var scSpan trace.Span
		if o.tracer != nil {
			sctx, span := o.tracer.StartScenarioSpan(ctx, runID, sc.ID)
			scCtx = sctx
			scSpan = span
		}
		scStart := time.Now()

		res := r.RunScenario(scCtx, runID, sc, func(out core.QuestionOutcome) {
			if !out.Completed {
				return
			}
			completed++
			ev := core.ProgressEvent{
				Type:            "progress",
				Completed:       completed,
				Total:           totalQuestions,
				CurrentScenario: out.ScenarioID,
				CurrentQuestion: out.Question,
			}
			if err := sink.Emit(ev); err != nil {
				log.Warn("progress emit failed", "error", err)
			}
		})

		totalScore += res.Total
		for _, out := range res.Outcomes {
			if !out.Completed {
				skipped = append(skipped, out)
			}
		}
		if scSpan != nil {
			tracing.RecordSpanScore(scSpan, res.Total, res.Completed)
			tracing.RecordSpanDuration(scSpan, time.Since(scStart))
			scSpan.End()
		}
	}

	if err := o.store.UpdateRunStatus(ctx, runID, core.RunCompleted, &totalScore); err != nil {
		return core.RunSummary{}, fmt.Errorf("finalize run: %w", err)
	}

	maxScore := len(selected) * scenarios.QuestionsPerScenario * rubric.MaxScorePerQuestion
	log.Info("run completed",
		"total_score", totalScore,
		"max_score", maxScore,
		"completed", completed,
		"skipped", len(skipped),
	)

	return core.RunSummary{
		Type:                 "complete",
		TestRunID:            runID,
		TotalScore:           totalScore,
		MaxScore:             maxScore,
		CompletedEvaluations: completed,
		Skipped:              skipped,
	}, nil
}

// markFailed flips the run record to failed after a run-level error.
// Best effort: the original error is what the caller sees either way.
func (o *Orchestrator) markFailed(runID string, log *logging.Logger, cause error) {
	log.Error("run failed", "error", cause)
	if err := o.store.UpdateRunStatus(context.Background(), runID, core.RunFailed, nil); err != nil {
		log.Error("could not mark run failed", "error", err)
	}
}
