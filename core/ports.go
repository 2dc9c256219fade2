package core

import "context"

// ModelAdapter is the model-invocation boundary. RunScenario drives one
// conversation turn with the full message history; Evaluate sends a
// single scoring prompt. Both fail with a provider error on
// transport/API failure.
type ModelAdapter interface {
	RunScenario(ctx context.Context, messages []Message) (ChatResult, error)
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// EvalStore is the persistence boundary. CreateRun returns the new
// run's id. UpdateRunStatus takes an optional total score (nil leaves
// the stored total untouched). All methods propagate storage errors.
type EvalStore interface {
	CreateRun(ctx context.Context, model, version string) (string, error)
	SaveEvaluation(ctx context.Context, ev Evaluation) error
	UpdateRunStatus(ctx context.Context, runID string, status RunStatus, totalScore *int) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context) ([]Run, error)
	ListEvaluations(ctx context.Context, runID string) ([]Evaluation, error)
	Close() error
}

// ScenarioSource provides the static scenario set, loaded once at run
// start.
type ScenarioSource interface {
	Load(ctx context.Context) ([]Scenario, error)
}

// EventSink receives progress events as a run executes. Implementations
// decide the transport: an HTTP stream, a buffered replay, a channel.
type EventSink interface {
	Emit(event any) error
}
