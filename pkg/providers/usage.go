package providers

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/snow-ghost/evalbench/core"
)

// UsageEstimator fills in token usage when a provider does not report
// it. It prefers a tiktoken encoding and falls back to a ~4 chars per
// token heuristic.
type UsageEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewUsageEstimator creates an estimator. Encoding setup is best
// effort; on failure the heuristic alone is used.
func NewUsageEstimator() *UsageEstimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &UsageEstimator{}
	}
	return &UsageEstimator{enc: enc}
}

// Estimate computes usage for one exchange.
func (e *UsageEstimator) Estimate(messages []core.Message, response string) core.Usage {
	var prompt int
	for _, msg := range messages {
		prompt += e.count(msg.Content)
	}
	completion := e.count(response)

	return core.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func (e *UsageEstimator) count(text string) int {
	if text == "" {
		return 0
	}
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
