package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/snow-ghost/evalbench/core"
)

// SQLite is a SQLite-backed EvalStore. Score and justification maps are
// stored as JSON columns.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLite) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		model_version TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		total_score INTEGER NOT NULL DEFAULT 0,
		max_score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id),
		scenario_id TEXT NOT NULL,
		question_number INTEGER NOT NULL,
		question_text TEXT NOT NULL,
		response_text TEXT NOT NULL,
		auto_scores TEXT NOT NULL,
		auto_justifications TEXT NOT NULL,
		auto_confidence TEXT NOT NULL,
		final_scores TEXT NOT NULL,
		final_justifications TEXT NOT NULL,
		final_confidence TEXT NOT NULL,
		review_status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_run ON evaluations(run_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_scenario ON evaluations(run_id, scenario_id);
	`
	_, err := s.db.Exec(query)
	return err
}

// CreateRun inserts a new in-progress run and returns its id.
func (s *SQLite) CreateRun(ctx context.Context, model, version string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, model, model_version, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, model, version, string(core.RunInProgress), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// SaveEvaluation inserts one evaluation record.
func (s *SQLite) SaveEvaluation(ctx context.Context, ev core.Evaluation) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	autoScores, err := json.Marshal(ev.AutoScores)
	if err != nil {
		return fmt.Errorf("failed to marshal auto scores: %w", err)
	}
	autoJust, err := json.Marshal(ev.AutoJustifications)
	if err != nil {
		return fmt.Errorf("failed to marshal auto justifications: %w", err)
	}
	finalScores, err := json.Marshal(ev.FinalScores)
	if err != nil {
		return fmt.Errorf("failed to marshal final scores: %w", err)
	}
	finalJust, err := json.Marshal(ev.FinalJustifications)
	if err != nil {
		return fmt.Errorf("failed to marshal final justifications: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, run_id, scenario_id, question_number, question_text, response_text,
			auto_scores, auto_justifications, auto_confidence,
			final_scores, final_justifications, final_confidence,
			review_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.RunID, ev.ScenarioID, ev.QuestionNumber, ev.QuestionText, ev.ResponseText,
		string(autoScores), string(autoJust), string(ev.AutoConfidence),
		string(finalScores), string(finalJust), string(ev.FinalConfidence),
		string(ev.ReviewStatus), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// UpdateRunStatus sets the run's status; totalScore is applied when
// non-nil.
func (s *SQLite) UpdateRunStatus(ctx context.Context, runID string, status core.RunStatus, totalScore *int) error {
	var res sql.Result
	var err error
	if totalScore != nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE runs SET status = ?, total_score = ? WHERE id = ?`,
			string(status), *totalScore, runID)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE runs SET status = ? WHERE id = ?`,
			string(status), runID)
	}
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update run status: %w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// GetRun returns a run by id.
func (s *SQLite) GetRun(ctx context.Context, runID string) (core.Run, error) {
	var run core.Run
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, model, model_version, status, total_score, max_score, created_at FROM runs WHERE id = ?`,
		runID,
	).Scan(&run.ID, &run.Model, &run.ModelVersion, &status, &run.TotalScore, &run.MaxScore, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return core.Run{}, fmt.Errorf("get run: %w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return core.Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	run.Status = core.RunStatus(status)
	return run, nil
}

// ListRuns returns all runs, oldest first.
func (s *SQLite) ListRuns(ctx context.Context) ([]core.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model, model_version, status, total_score, max_score, created_at
		 FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []core.Run
	for rows.Next() {
		var run core.Run
		var status string
		if err := rows.Scan(&run.ID, &run.Model, &run.ModelVersion, &status, &run.TotalScore, &run.MaxScore, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Status = core.RunStatus(status)
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListEvaluations returns the run's evaluations ordered by scenario and
// question.
func (s *SQLite) ListEvaluations(ctx context.Context, runID string) ([]core.Evaluation, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, scenario_id, question_number, question_text, response_text,
			auto_scores, auto_justifications, auto_confidence,
			final_scores, final_justifications, final_confidence,
			review_status, created_at
		FROM evaluations WHERE run_id = ?
		ORDER BY created_at, scenario_id, question_number`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var out []core.Evaluation
	for rows.Next() {
		var ev core.Evaluation
		var autoScores, autoJust, finalScores, finalJust string
		var autoConf, finalConf, review string
		err := rows.Scan(
			&ev.ID, &ev.RunID, &ev.ScenarioID, &ev.QuestionNumber, &ev.QuestionText, &ev.ResponseText,
			&autoScores, &autoJust, &autoConf,
			&finalScores, &finalJust, &finalConf,
			&review, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		if err := json.Unmarshal([]byte(autoScores), &ev.AutoScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal auto scores: %w", err)
		}
		if err := json.Unmarshal([]byte(autoJust), &ev.AutoJustifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal auto justifications: %w", err)
		}
		if err := json.Unmarshal([]byte(finalScores), &ev.FinalScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal final scores: %w", err)
		}
		if err := json.Unmarshal([]byte(finalJust), &ev.FinalJustifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal final justifications: %w", err)
		}
		ev.AutoConfidence = core.Confidence(autoConf)
		ev.FinalConfidence = core.Confidence(finalConf)
		ev.ReviewStatus = core.ReviewStatus(review)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
