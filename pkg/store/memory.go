package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snow-ghost/evalbench/core"
)

// Memory is an in-memory EvalStore. Safe for concurrent runs.
type Memory struct {
	mu    sync.RWMutex
	runs  map[string]core.Run
	evals map[string][]core.Evaluation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		runs:  make(map[string]core.Run),
		evals: make(map[string][]core.Evaluation),
	}
}

// CreateRun registers a new run in progress and returns its id.
func (m *Memory) CreateRun(ctx context.Context, model, version string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.runs[id] = core.Run{
		ID:           id,
		Model:        model,
		ModelVersion: version,
		Status:       core.RunInProgress,
		CreatedAt:    time.Now().UTC(),
	}
	return id, nil
}

// SaveEvaluation appends an evaluation record to its run.
func (m *Memory) SaveEvaluation(ctx context.Context, ev core.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[ev.RunID]; !ok {
		return fmt.Errorf("save evaluation: %w: %s", ErrRunNotFound, ev.RunID)
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	m.evals[ev.RunID] = append(m.evals[ev.RunID], ev)
	return nil
}

// UpdateRunStatus sets the run's terminal status; totalScore is applied
// when non-nil.
func (m *Memory) UpdateRunStatus(ctx context.Context, runID string, status core.RunStatus, totalScore *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("update run status: %w: %s", ErrRunNotFound, runID)
	}
	run.Status = status
	if totalScore != nil {
		run.TotalScore = *totalScore
	}
	m.runs[runID] = run
	return nil
}

// GetRun returns a run by id.
func (m *Memory) GetRun(ctx context.Context, runID string) (core.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[runID]
	if !ok {
		return core.Run{}, fmt.Errorf("get run: %w: %s", ErrRunNotFound, runID)
	}
	return run, nil
}

// ListRuns returns all runs, oldest first.
func (m *Memory) ListRuns(ctx context.Context) ([]core.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Run, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListEvaluations returns the run's evaluations in insertion order.
func (m *Memory) ListEvaluations(ctx context.Context, runID string) ([]core.Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.runs[runID]; !ok {
		return nil, fmt.Errorf("list evaluations: %w: %s", ErrRunNotFound, runID)
	}
	out := make([]core.Evaluation, len(m.evals[runID]))
	copy(out, m.evals[runID])
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}
