// Package runner drives one scenario through its scripted questions:
// model call, rubric scoring, persistence, progress notification. A
// failure in any single question is contained so the rest of the
// scenario still runs.
package runner

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/logging"
	"github.com/snow-ghost/evalbench/pkg/metrics"
	"github.com/snow-ghost/evalbench/pkg/rubric"
)

// Runner executes scenarios against one resolved model adapter.
type Runner struct {
	adapter core.ModelAdapter
	store   core.EvalStore
	logger  *logging.Logger
	metrics *metrics.PrometheusMetrics
	family  string
}

// New creates a runner. metrics may be nil.
func New(adapter core.ModelAdapter, store core.EvalStore, logger *logging.Logger, m *metrics.PrometheusMetrics, family string) *Runner {
	return &Runner{
		adapter: adapter,
		store:   store,
		logger:  logger,
		metrics: m,
		family:  family,
	}
}

// Result aggregates one scenario's execution.
type Result struct {
	Total     int
	Completed int
	Outcomes  []core.QuestionOutcome
}

// RunScenario walks the scenario's questions in order, maintaining the
// rolling conversation history. notify, when non-nil, is called after
// every question attempt, completed or skipped. The returned Result
// never carries an error: per-question failures are recorded as skipped
// outcomes, not propagated.
func (r *Runner) RunScenario(ctx context.Context, runID string, sc core.Scenario, notify func(core.QuestionOutcome)) Result {
	log := r.logger.WithRun(runID).WithScenario(sc.ID)
	history := make([]core.Message, 0, len(sc.Questions)*2)

	var res Result
	for _, q := range sc.Questions {
		outcome := r.runQuestion(ctx, runID, sc, q, &history, log)
		res.Outcomes = append(res.Outcomes, outcome)
		if outcome.Completed {
			res.Total += outcome.Score
			res.Completed++
		} else {
			r.metrics.RecordSkipped(sc.ID)
			log.LogSkippedQuestion(sc.ID, q.Number, outcome.Reason)
		}
		if notify != nil {
			notify(outcome)
		}
	}
	return res
}

// runQuestion performs one exchange end to end. The history mutation
// happens only after a successful model call; a later scoring or
// persistence failure leaves the exchange in the history but skips the
// question.
func (r *Runner) runQuestion(ctx context.Context, runID string, sc core.Scenario, q core.Question, history *[]core.Message, log *logging.Logger) core.QuestionOutcome {
	skipped := func(reason string) core.QuestionOutcome {
		return core.QuestionOutcome{ScenarioID: sc.ID, Question: q.Number, Reason: reason}
	}

	userMsg := core.Message{Role: core.RoleUser, Content: q.Text}
	working := append(slices.Clone(*history), userMsg)

	start := time.Now()
	chat, err := r.adapter.RunScenario(ctx, working)
	r.metrics.RecordModelCall(r.family, "chat", callStatus(err), time.Since(start))
	if err != nil {
		return skipped("model call: " + err.Error())
	}
	r.metrics.RecordTokens(r.family, chat.Usage.PromptTokens, chat.Usage.CompletionTokens)
	log.LogModelCall(r.family, "chat", "ok", time.Since(start), chat.Usage.TotalTokens)

	// The scoring prompt sees the conversation before this exchange.
	prior := slices.Clone(*history)
	*history = append(*history, userMsg, core.Message{Role: core.RoleAssistant, Content: chat.Text})

	prompt := rubric.BuildPrompt(sc.ID, q.Number, q.Text, chat.Text, prior)
	start = time.Now()
	reply, err := r.adapter.Evaluate(ctx, prompt)
	r.metrics.RecordModelCall(r.family, "evaluate", callStatus(err), time.Since(start))
	if err != nil {
		return skipped("scoring call: " + err.Error())
	}

	parsed := rubric.ParseReply(reply)
	total := parsed.Total()

	ev := core.Evaluation{
		RunID:               runID,
		ScenarioID:          sc.ID,
		QuestionNumber:      q.Number,
		QuestionText:        q.Text,
		ResponseText:        chat.Text,
		AutoScores:          parsed.Scores,
		AutoJustifications:  parsed.Justifications,
		AutoConfidence:      parsed.Confidence,
		FinalScores:         maps.Clone(parsed.Scores),
		FinalJustifications: maps.Clone(parsed.Justifications),
		FinalConfidence:     parsed.Confidence,
		ReviewStatus:        rubric.ReviewStatusFor(parsed.Confidence),
	}
	if err := r.store.SaveEvaluation(ctx, ev); err != nil {
		return skipped("persistence: " + err.Error())
	}

	r.metrics.RecordEvaluation(sc.ID, total)
	log.LogEvaluation(sc.ID, q.Number, total, string(parsed.Confidence))

	return core.QuestionOutcome{
		ScenarioID: sc.ID,
		Question:   q.Number,
		Completed:  true,
		Score:      total,
	}
}

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
