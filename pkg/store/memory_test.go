package store

import (
	"context"
	"testing"

	"github.com/snow-ghost/evalbench/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RunLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateRun(ctx, "openai", "gpt-4o-mini")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := m.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.RunInProgress, run.Status)
	assert.Equal(t, "openai", run.Model)
	assert.Equal(t, "gpt-4o-mini", run.ModelVersion)

	total := 42
	require.NoError(t, m.UpdateRunStatus(ctx, id, core.RunCompleted, &total))

	run, err = m.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.RunCompleted, run.Status)
	assert.Equal(t, 42, run.TotalScore)
}

func TestMemory_UpdateWithoutScore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateRun(ctx, "openai", "")
	require.NoError(t, err)

	total := 10
	require.NoError(t, m.UpdateRunStatus(ctx, id, core.RunInProgress, &total))
	require.NoError(t, m.UpdateRunStatus(ctx, id, core.RunFailed, nil))

	run, err := m.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.RunFailed, run.Status)
	assert.Equal(t, 10, run.TotalScore, "nil score must leave total untouched")
}

func TestMemory_Evaluations(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateRun(ctx, "anthropic", "")
	require.NoError(t, err)

	ev := core.Evaluation{
		RunID:          id,
		ScenarioID:     "s1",
		QuestionNumber: 1,
		QuestionText:   "q",
		ResponseText:   "r",
		AutoScores:     map[string]int{"self_awareness": 4},
		AutoConfidence: core.ConfidenceLow,
		ReviewStatus:   core.ReviewPending,
	}
	require.NoError(t, m.SaveEvaluation(ctx, ev))
	require.NoError(t, m.SaveEvaluation(ctx, core.Evaluation{RunID: id, ScenarioID: "s1", QuestionNumber: 2}))

	got, err := m.ListEvaluations(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, 1, got[0].QuestionNumber)
	assert.Equal(t, 2, got[1].QuestionNumber)
	assert.Equal(t, core.ReviewPending, got[0].ReviewStatus)
}

func TestMemory_UnknownRun(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = m.SaveEvaluation(ctx, core.Evaluation{RunID: "nope"})
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = m.UpdateRunStatus(ctx, "nope", core.RunCompleted, nil)
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = m.ListEvaluations(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestMemory_ListRuns(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	runs, err := m.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := m.CreateRun(ctx, "scripted", "")
	require.NoError(t, err)
	second, err := m.CreateRun(ctx, "openai", "gpt-4o")
	require.NoError(t, err)

	runs, err = m.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
}
