package core

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a scenario conversation. Messages are
// append-only: once created they are never mutated.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Question is one scripted probe within a scenario. Number is 1-based
// and defines the order questions are asked and scored.
type Question struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}

// Scenario is a named, ordered sequence of benchmark questions
// exercising one conversational theme. Loaded once per run.
type Scenario struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Confidence is the judge's self-reported certainty about its scoring.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ReviewStatus routes evaluations for human review. Low-confidence
// scoring starts pending; everything else starts accepted.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewAccepted ReviewStatus = "accepted"
)

// RunStatus is the lifecycle state of a benchmark run.
type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Evaluation is the persisted outcome of scoring one question within
// one scenario within one run. The auto_* fields hold the judge's
// output; the final_* fields start as a copy and may later be
// overwritten by a human reviewer.
type Evaluation struct {
	ID                  string            `json:"id"`
	RunID               string            `json:"run_id"`
	ScenarioID          string            `json:"scenario_id"`
	QuestionNumber      int               `json:"question_number"`
	QuestionText        string            `json:"question_text"`
	ResponseText        string            `json:"response_text"`
	AutoScores          map[string]int    `json:"auto_scores"`
	AutoJustifications  map[string]string `json:"auto_justifications"`
	AutoConfidence      Confidence        `json:"auto_confidence"`
	FinalScores         map[string]int    `json:"final_scores"`
	FinalJustifications map[string]string `json:"final_justifications"`
	FinalConfidence     Confidence        `json:"final_confidence"`
	ReviewStatus        ReviewStatus      `json:"review_status"`
	CreatedAt           time.Time         `json:"created_at"`
}

// Run is one full execution of the benchmark against a chosen model.
type Run struct {
	ID           string    `json:"id"`
	Model        string    `json:"model"`
	ModelVersion string    `json:"model_version,omitempty"`
	Status       RunStatus `json:"status"`
	TotalScore   int       `json:"total_score"`
	MaxScore     int       `json:"max_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuestionOutcome records what happened to one question: either it
// completed with a score, or it was skipped with a reason.
type QuestionOutcome struct {
	ScenarioID string `json:"scenarioId"`
	Question   int    `json:"question"`
	Completed  bool   `json:"completed"`
	Score      int    `json:"score,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ProgressEvent is streamed to the caller after each completed question.
type ProgressEvent struct {
	Type            string `json:"type"`
	Completed       int    `json:"completed"`
	Total           int    `json:"total"`
	CurrentScenario string `json:"currentScenario"`
	CurrentQuestion int    `json:"currentQuestion"`
}

// RunSummary is the terminal object of a run stream.
type RunSummary struct {
	Type                 string            `json:"type"`
	TestRunID            string            `json:"testRunId"`
	TotalScore           int               `json:"totalScore"`
	MaxScore             int               `json:"maxScore"`
	CompletedEvaluations int               `json:"completedEvaluations"`
	Skipped              []QuestionOutcome `json:"skipped,omitempty"`
}

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Usage reports token accounting for one model call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the adapter's answer to a conversation turn.
type ChatResult struct {
	Text         string            `json:"text"`
	Usage        Usage             `json:"usage"`
	FinishReason string            `json:"finish_reason,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
