package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/logging"
	"github.com/snow-ghost/evalbench/pkg/providers"
	"github.com/snow-ghost/evalbench/pkg/rubric"
	"github.com/snow-ghost/evalbench/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScenario(questions int) core.Scenario {
	sc := core.Scenario{ID: "s1", Title: "Test"}
	for i := 1; i <= questions; i++ {
		sc.Questions = append(sc.Questions, core.Question{Number: i, Text: fmt.Sprintf("question %d", i)})
	}
	return sc
}

func newTestRunner(t *testing.T, adapter core.ModelAdapter) (*Runner, *store.Memory, string) {
	t.Helper()
	mem := store.NewMemory()
	runID, err := mem.CreateRun(context.Background(), "scripted", "")
	require.NoError(t, err)
	return New(adapter, mem, logging.NewNop(), nil, "scripted"), mem, runID
}

func TestRunScenario_AllQuestionsComplete(t *testing.T) {
	adapter := providers.NewScripted()
	r, mem, runID := newTestRunner(t, adapter)

	res := r.RunScenario(context.Background(), runID, testScenario(4), nil)

	assert.Equal(t, 4, res.Completed)
	// The default judge reply scores 3 on each of 5 dimensions.
	assert.Equal(t, 4*15, res.Total)
	require.Len(t, res.Outcomes, 4)
	for i, o := range res.Outcomes {
		assert.True(t, o.Completed)
		assert.Equal(t, i+1, o.Question)
		assert.Equal(t, 15, o.Score)
	}

	evals, err := mem.ListEvaluations(context.Background(), runID)
	require.NoError(t, err)
	assert.Len(t, evals, 4)
}

func TestRunScenario_HistoryGrowsAcrossQuestions(t *testing.T) {
	adapter := providers.NewScripted()
	r, _, runID := newTestRunner(t, adapter)

	r.RunScenario(context.Background(), runID, testScenario(3), nil)

	chats := adapter.Chats()
	require.Len(t, chats, 3)
	// Question n is submitted with 2(n-1) prior messages plus itself.
	for i, msgs := range chats {
		require.Len(t, msgs, 2*i+1, "question %d", i+1)
		last := msgs[len(msgs)-1]
		assert.Equal(t, core.RoleUser, last.Role)
		assert.Equal(t, fmt.Sprintf("question %d", i+1), last.Content)
	}
	// Prior exchanges appear in order: user reply pairs.
	third := chats[2]
	assert.Equal(t, "question 1", third[0].Content)
	assert.Equal(t, core.RoleAssistant, third[1].Role)
	assert.Equal(t, "question 2", third[2].Content)
}

func TestRunScenario_ScoringPromptExcludesCurrentExchange(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.ChatFn = func(call int, messages []core.Message) (core.ChatResult, error) {
		return core.ChatResult{Text: fmt.Sprintf("answer %d", call)}, nil
	}
	r, _, runID := newTestRunner(t, adapter)

	r.RunScenario(context.Background(), runID, testScenario(2), nil)

	prompts := adapter.Prompts()
	require.Len(t, prompts, 2)

	// Question 1: no history, so no transcript section.
	assert.NotContains(t, prompts[0], "Conversation so far")

	// Question 2: transcript holds exactly the first exchange, not the
	// current one.
	assert.Contains(t, prompts[1], "1. [user] question 1")
	assert.Contains(t, prompts[1], "2. [assistant] answer 1")
	assert.NotContains(t, prompts[1], "[assistant] answer 2")
	// The current question appears only as the QUESTION under scoring.
	assert.Equal(t, 1, strings.Count(prompts[1], "question 2"))
}

func TestRunScenario_ModelFailureIsolated(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.ChatFn = func(call int, messages []core.Message) (core.ChatResult, error) {
		if call == 2 {
			return core.ChatResult{}, errors.New("rate limited")
		}
		return core.ChatResult{Text: fmt.Sprintf("answer %d", call)}, nil
	}
	r, mem, runID := newTestRunner(t, adapter)

	res := r.RunScenario(context.Background(), runID, testScenario(3), nil)

	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, 2*15, res.Total)
	require.Len(t, res.Outcomes, 3)
	assert.True(t, res.Outcomes[0].Completed)
	assert.False(t, res.Outcomes[1].Completed)
	assert.Contains(t, res.Outcomes[1].Reason, "model call")
	assert.Contains(t, res.Outcomes[1].Reason, "rate limited")
	assert.True(t, res.Outcomes[2].Completed, "later questions still attempted")

	// The failed exchange never enters the history.
	third := adapter.Chats()[2]
	require.Len(t, third, 3)
	assert.Equal(t, "question 1", third[0].Content)
	assert.Equal(t, "question 3", third[2].Content)

	evals, err := mem.ListEvaluations(context.Background(), runID)
	require.NoError(t, err)
	assert.Len(t, evals, 2, "skipped question persists nothing")
}

func TestRunScenario_ScoringFailureIsolated(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.EvaluateFn = func(call int, prompt string) (string, error) {
		if call == 1 {
			return "", errors.New("judge unavailable")
		}
		return providers.DefaultJudgeReply, nil
	}
	r, mem, runID := newTestRunner(t, adapter)

	res := r.RunScenario(context.Background(), runID, testScenario(2), nil)

	assert.Equal(t, 1, res.Completed)
	assert.False(t, res.Outcomes[0].Completed)
	assert.Contains(t, res.Outcomes[0].Reason, "scoring call")

	// Model call succeeded, so the exchange stays in history for
	// question 2 even though question 1 was skipped.
	second := adapter.Chats()[1]
	assert.Len(t, second, 3)

	evals, err := mem.ListEvaluations(context.Background(), runID)
	require.NoError(t, err)
	assert.Len(t, evals, 1)
}

func TestRunScenario_PersistenceFailureIsolated(t *testing.T) {
	adapter := providers.NewScripted()
	failing := &failingStore{Memory: store.NewMemory(), failOn: 1}
	runID, err := failing.CreateRun(context.Background(), "scripted", "")
	require.NoError(t, err)
	r := New(adapter, failing, logging.NewNop(), nil, "scripted")

	res := r.RunScenario(context.Background(), runID, testScenario(2), nil)

	assert.Equal(t, 1, res.Completed)
	assert.False(t, res.Outcomes[0].Completed)
	assert.Contains(t, res.Outcomes[0].Reason, "persistence")
	assert.True(t, res.Outcomes[1].Completed)
}

func TestRunScenario_EvaluationFields(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.EvaluateFn = func(call int, prompt string) (string, error) {
		return "CONTRADICTION_RECOGNITION: 4\nJUSTIFICATION: sharp.\n\nCONFIDENCE: LOW\n", nil
	}
	r, mem, runID := newTestRunner(t, adapter)

	res := r.RunScenario(context.Background(), runID, testScenario(1), nil)
	assert.Equal(t, 4, res.Total)

	evals, err := mem.ListEvaluations(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	ev := evals[0]

	assert.Equal(t, "question 1", ev.QuestionText)
	assert.Equal(t, "scripted reply 1", ev.ResponseText)
	assert.Equal(t, 4, ev.AutoScores[rubric.DimContradictionRecognition])
	assert.Equal(t, 0, ev.AutoScores[rubric.DimSelfAwareness])
	assert.Equal(t, core.ConfidenceLow, ev.AutoConfidence)
	assert.Equal(t, core.ReviewPending, ev.ReviewStatus, "low confidence needs review")

	// Final fields mirror auto fields at creation, as distinct copies.
	assert.Equal(t, ev.AutoScores, ev.FinalScores)
	assert.Equal(t, ev.AutoJustifications, ev.FinalJustifications)
	assert.Equal(t, ev.AutoConfidence, ev.FinalConfidence)
}

func TestRunScenario_HighConfidenceAccepted(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.EvaluateFn = func(call int, prompt string) (string, error) {
		return "SELF_AWARENESS: 5\nJUSTIFICATION: strong.\n\nCONFIDENCE: HIGH\n", nil
	}
	r, mem, runID := newTestRunner(t, adapter)

	r.RunScenario(context.Background(), runID, testScenario(1), nil)

	evals, err := mem.ListEvaluations(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, core.ReviewAccepted, evals[0].ReviewStatus)
}

func TestRunScenario_NotifyCalledPerQuestion(t *testing.T) {
	adapter := providers.NewScripted()
	adapter.ChatFn = func(call int, messages []core.Message) (core.ChatResult, error) {
		if call == 1 {
			return core.ChatResult{}, errors.New("down")
		}
		return core.ChatResult{Text: "ok"}, nil
	}
	r, _, runID := newTestRunner(t, adapter)

	var seen []core.QuestionOutcome
	r.RunScenario(context.Background(), runID, testScenario(2), func(o core.QuestionOutcome) {
		seen = append(seen, o)
	})

	require.Len(t, seen, 2)
	assert.False(t, seen[0].Completed)
	assert.True(t, seen[1].Completed)
}

// failingStore fails SaveEvaluation on the Nth call (1-based).
type failingStore struct {
	*store.Memory
	calls  int
	failOn int
}

func (f *failingStore) SaveEvaluation(ctx context.Context, ev core.Evaluation) error {
	f.calls++
	if f.calls == f.failOn {
		return errors.New("storage unavailable")
	}
	return f.Memory.SaveEvaluation(ctx, ev)
}
