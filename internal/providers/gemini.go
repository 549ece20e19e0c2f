package providers

import (
	"context"
	"fmt"
	"time"

	"loupe/internal/config"
	"loupe/internal/prompt"

	"google.golang.org/genai"
)

// Gemini is the hosted adapter for Google's Gemini API.
type Gemini struct {
	apiKey string
	model  string
}

func newGemini(cfg config.ProviderConfig, _ Deps) (Adapter, error) {
	return &Gemini{apiKey: cfg.APIKey, model: cfg.Model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Validate(ctx context.Context) error {
	if g.apiKey == "" {
		return fmt.Errorf("gemini: api key is not configured")
	}
	if g.model == "" {
		return fmt.Errorf("gemini: model is not configured")
	}
	return nil
}

func (g *Gemini) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	start := time.Now()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return ExecResult{}, fmt.Errorf("creating gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(hostedTemperature)),
		MaxOutputTokens: hostedMaxTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.SystemInstruction}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return ExecResult{}, fmt.Errorf("gemini review: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return ExecResult{}, fmt.Errorf("gemini review: empty response")
	}
	return ExecResult{Raw: text, DurationMs: time.Since(start).Milliseconds()}, nil
}
