package providers

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/snow-ghost/evalbench/core"
)

// OpenAIAdapter implements core.ModelAdapter against OpenAI-compatible
// chat APIs.
type OpenAIAdapter struct {
	client    *openai.Client
	model     string
	estimator *UsageEstimator
}

// NewOpenAIAdapter creates an OpenAI adapter. baseURL may be empty to
// use the public API.
func NewOpenAIAdapter(apiKey, baseURL, model string) *OpenAIAdapter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIAdapter{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		estimator: NewUsageEstimator(),
	}
}

// RunScenario sends the full conversation and returns the assistant's
// reply.
func (a *OpenAIAdapter) RunScenario(ctx context.Context, messages []core.Message) (core.ChatResult, error) {
	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		converted[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: converted,
	})
	if err != nil {
		return core.ChatResult{}, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.ChatResult{}, fmt.Errorf("openai returned no choices")
	}

	result := core.ChatResult{
		Text: resp.Choices[0].Message.Content,
		Usage: core.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		FinishReason: string(resp.Choices[0].FinishReason),
		Metadata:     map[string]string{"model": resp.Model},
	}
	if result.Usage.TotalTokens == 0 {
		result.Usage = a.estimator.Estimate(messages, result.Text)
	}
	return result, nil
}

// Evaluate sends a single scoring prompt and returns the raw reply
// text. Temperature is pinned to zero: the judge should be as
// deterministic as the provider allows.
func (a *OpenAIAdapter) Evaluate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai evaluation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
