package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/snow-ghost/evalbench/core"
)

// Scripted is a deterministic in-process adapter used for tests and for
// running the service without provider credentials (MODEL_MODE=scripted).
// Behavior is overridable per call via ChatFn/EvaluateFn; every call is
// recorded.
type Scripted struct {
	mu sync.Mutex

	// ChatFn, when set, answers RunScenario. call is 1-based.
	ChatFn func(call int, messages []core.Message) (core.ChatResult, error)
	// EvaluateFn, when set, answers Evaluate. call is 1-based.
	EvaluateFn func(call int, prompt string) (string, error)

	chats   [][]core.Message
	prompts []string
}

// NewScripted creates a scripted adapter with default canned replies.
func NewScripted() *Scripted {
	return &Scripted{}
}

// RunScenario records the message sequence and returns the scripted
// reply.
func (s *Scripted) RunScenario(ctx context.Context, messages []core.Message) (core.ChatResult, error) {
	s.mu.Lock()
	copied := make([]core.Message, len(messages))
	copy(copied, messages)
	s.chats = append(s.chats, copied)
	call := len(s.chats)
	fn := s.ChatFn
	s.mu.Unlock()

	if fn != nil {
		return fn(call, copied)
	}
	return core.ChatResult{
		Text:         fmt.Sprintf("scripted reply %d", call),
		Usage:        core.Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20},
		FinishReason: "stop",
	}, nil
}

// Evaluate records the prompt and returns the scripted judge reply.
func (s *Scripted) Evaluate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	call := len(s.prompts)
	fn := s.EvaluateFn
	s.mu.Unlock()

	if fn != nil {
		return fn(call, prompt)
	}
	return DefaultJudgeReply, nil
}

// Chats returns the recorded message sequences, one per RunScenario
// call.
func (s *Scripted) Chats() [][]core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]core.Message, len(s.chats))
	copy(out, s.chats)
	return out
}

// Prompts returns the recorded scoring prompts, one per Evaluate call.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// DefaultJudgeReply is a well-formed judge reply scoring 3 on every
// dimension with medium confidence (per-question total 15).
const DefaultJudgeReply = `CONTRADICTION_RECOGNITION: 3
JUSTIFICATION: scripted.

META_COGNITIVE_DEPTH: 3
JUSTIFICATION: scripted.

UNCERTAINTY_TOLERANCE: 3
JUSTIFICATION: scripted.

VALUE_SYNTHESIS: 3
JUSTIFICATION: scripted.

SELF_AWARENESS: 3
JUSTIFICATION: scripted.

CONFIDENCE: MEDIUM
`
