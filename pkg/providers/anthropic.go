package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/snow-ghost/evalbench/core"
)

// AnthropicAdapter implements core.ModelAdapter against the Anthropic
// Messages API.
type AnthropicAdapter struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	estimator *UsageEstimator
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float32           `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	StopReason string `json:"stop_reason"`
	Model      string `json:"model"`
}

// NewAnthropicAdapter creates an Anthropic adapter.
func NewAnthropicAdapter(apiKey, baseURL, model string) *AnthropicAdapter {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicAdapter{
		client:    &http.Client{Timeout: 120 * time.Second},
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: 2048,
		estimator: NewUsageEstimator(),
	}
}

// RunScenario sends the full conversation and returns the assistant's
// reply.
func (a *AnthropicAdapter) RunScenario(ctx context.Context, messages []core.Message) (core.ChatResult, error) {
	converted := make([]anthropicMessage, len(messages))
	for i, msg := range messages {
		converted[i] = anthropicMessage{Role: string(msg.Role), Content: msg.Content}
	}

	resp, err := a.send(ctx, anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  converted,
	})
	if err != nil {
		return core.ChatResult{}, err
	}

	result := core.ChatResult{
		Text: joinContent(resp),
		Usage: core.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		FinishReason: resp.StopReason,
		Metadata:     map[string]string{"model": resp.Model},
	}
	if result.Usage.TotalTokens == 0 {
		result.Usage = a.estimator.Estimate(messages, result.Text)
	}
	return result, nil
}

// Evaluate sends a single scoring prompt at temperature zero.
func (a *AnthropicAdapter) Evaluate(ctx context.Context, prompt string) (string, error) {
	var temp float32
	resp, err := a.send(ctx, anthropicRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return joinContent(resp), nil
}

func (a *AnthropicAdapter) send(ctx context.Context, req anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode anthropic response: %w", err)
	}
	return &parsed, nil
}

func joinContent(resp *anthropicResponse) string {
	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return text
}
