package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"loupe/internal/config"
	"loupe/internal/gitdiff"
	"loupe/internal/prompt"

	"go.uber.org/zap"
)

const (
	defaultOllamaBase  = "http://localhost:11434"
	ollamaCheckTimeout = 10 * time.Second
)

// ErrOllamaUnreachable indicates the local Ollama server could not be
// reached (connection refused, timeout, or non-2xx).
var ErrOllamaUnreachable = errors.New("ollama server unreachable")

// Ollama runs reviews against a locally hosted model service. Like the CLI
// adapter it requires a repository path, but since the HTTP service cannot
// read the filesystem, the adapter extracts the diff itself and appends it
// to the prompt.
type Ollama struct {
	baseURL   string
	model     string
	cc        *chatClient
	extractor *gitdiff.Engine
	logger    *zap.Logger
}

func newOllama(cfg config.ProviderConfig, deps Deps) (Adapter, error) {
	base := cfg.APIBase
	if base == "" {
		base = defaultOllamaBase
	}
	base = strings.TrimRight(base, "/")
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	extractor := deps.Extractor
	if extractor == nil {
		extractor = gitdiff.New(logger)
	}
	return &Ollama{
		baseURL:   base,
		model:     cfg.Model,
		cc:        newChatClient(base, cfg.APIKey, cfg.Model),
		extractor: extractor,
		logger:    logger,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Validate checks the local endpoint is reachable and logs whether the
// configured model is present in the tags list. A missing model is not
// fatal here; Ollama reports it precisely on the execute call.
func (o *Ollama) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("ollama tags request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama tags: %w", errors.Join(ErrOllamaUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama tags: %w: HTTP %d", ErrOllamaUnreachable, resp.StatusCode)
	}

	var body tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("ollama tags: parse response: %w", err)
	}
	found := false
	for _, m := range body.Models {
		if m.Name == o.model {
			found = true
			break
		}
	}
	if !found {
		o.logger.Warn("configured model not present on ollama server",
			zap.String("model", o.model), zap.Int("available", len(body.Models)))
	}
	return nil
}

func (o *Ollama) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	start := time.Now()

	p := req.Prompt
	if p == "" {
		p = defaultCLIPrompt
	}

	diff, err := o.extractor.Extract(ctx, req.RepoPath, req.CommitRange)
	if err != nil {
		return ExecResult{}, fmt.Errorf("extracting change content: %w", err)
	}
	p += "\n\n## Code changes\n\n```diff\n" + diff + "\n```\n"

	content, err := o.cc.chat(ctx, prompt.SystemInstruction, p)
	if err != nil {
		return ExecResult{}, fmt.Errorf("ollama review: %w", err)
	}
	return ExecResult{Raw: content, DurationMs: time.Since(start).Milliseconds()}, nil
}
