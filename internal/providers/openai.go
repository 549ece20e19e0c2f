package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loupe/internal/config"
	"loupe/internal/prompt"
)

const (
	defaultOpenAIBase   = "https://api.openai.com"
	defaultDeepSeekBase = "https://api.deepseek.com"

	hostedTimeout     = 120 * time.Second
	hostedMaxTokens   = 4000
	hostedTemperature = 0.7
)

// chatClient calls any OpenAI-compatible chat completions endpoint. OpenAI,
// DeepSeek, and the Ollama execute path all share this wire shape.
type chatClient struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func newChatClient(base, apiKey, model string) *chatClient {
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, "/v1/chat/completions")
	base = strings.TrimSuffix(base, "/v1")
	return &chatClient{
		url:    base + "/v1/chat/completions",
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: hostedTimeout},
	}
}

func (c *chatClient) chat(ctx context.Context, system, user string) (string, error) {
	temp := hostedTemperature
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
		MaxTokens:   hostedMaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode == 401 || httpResp.StatusCode == 403 {
		return "", &authError{message: string(respBody)}
	}
	if httpResp.StatusCode != 200 {
		return "", fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	if result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty text content in API response")
	}
	return result.Choices[0].Message.Content, nil
}

// OpenAI is the hosted adapter for the OpenAI API and any OpenAI-compatible
// endpoint reached via a custom base URL.
type OpenAI struct {
	cc *chatClient
}

func newOpenAI(cfg config.ProviderConfig, _ Deps) (Adapter, error) {
	base := cfg.APIBase
	if base == "" {
		base = defaultOpenAIBase
	}
	return &OpenAI{cc: newChatClient(base, cfg.APIKey, cfg.Model)}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Validate checks configuration completeness only; connectivity is provable
// only by attempting the call.
func (o *OpenAI) Validate(ctx context.Context) error {
	if o.cc.apiKey == "" {
		return fmt.Errorf("openai: api key is not configured")
	}
	if o.cc.model == "" {
		return fmt.Errorf("openai: model is not configured")
	}
	return nil
}

func (o *OpenAI) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	start := time.Now()
	content, err := o.cc.chat(ctx, prompt.SystemInstruction, req.Prompt)
	if err != nil {
		return ExecResult{}, fmt.Errorf("openai review: %w", err)
	}
	return ExecResult{Raw: content, DurationMs: time.Since(start).Milliseconds()}, nil
}

// DeepSeek is the hosted adapter for the DeepSeek API (OpenAI wire shape).
type DeepSeek struct {
	cc *chatClient
}

func newDeepSeek(cfg config.ProviderConfig, _ Deps) (Adapter, error) {
	base := cfg.APIBase
	if base == "" {
		base = defaultDeepSeekBase
	}
	return &DeepSeek{cc: newChatClient(base, cfg.APIKey, cfg.Model)}, nil
}

func (d *DeepSeek) Name() string { return "deepseek" }

func (d *DeepSeek) Validate(ctx context.Context) error {
	if d.cc.apiKey == "" {
		return fmt.Errorf("deepseek: api key is not configured")
	}
	if d.cc.model == "" {
		return fmt.Errorf("deepseek: model is not configured")
	}
	return nil
}

func (d *DeepSeek) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	start := time.Now()
	content, err := d.cc.chat(ctx, prompt.SystemInstruction, req.Prompt)
	if err != nil {
		return ExecResult{}, fmt.Errorf("deepseek review: %w", err)
	}
	return ExecResult{Raw: content, DurationMs: time.Since(start).Milliseconds()}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	TotalTokens int `json:"total_tokens"`
}
