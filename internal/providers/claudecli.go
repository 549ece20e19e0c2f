package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"loupe/internal/config"

	"go.uber.org/zap"
)

const (
	defaultClaudeBin = "claude"
	claudeTimeout    = 300 * time.Second
)

// defaultCLIPrompt is used when the caller supplies no prompt at all; the
// tool still needs an instruction even when it derives its own context.
const defaultCLIPrompt = "Review the most recent code changes in this repository. " +
	"Report bugs, security issues, performance problems, and maintainability concerns with concrete fixes."

// ClaudeCLI runs reviews through the claude command-line tool, which reads
// the repository itself; no diff is embedded in the prompt.
type ClaudeCLI struct {
	binPath string
	model   string
	logger  *zap.Logger
}

func newClaudeCLI(cfg config.ProviderConfig, deps Deps) (Adapter, error) {
	bin := cfg.APIBase // api_base doubles as a custom binary path for the CLI provider
	if bin == "" {
		bin = defaultClaudeBin
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaudeCLI{binPath: bin, model: cfg.Model, logger: logger}, nil
}

func (c *ClaudeCLI) Name() string { return "claude" }

// Validate checks the tool binary is present and runnable.
func (c *ClaudeCLI) Validate(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.binPath, "--version")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("claude CLI not found at %q: %w", c.binPath, err)
	}
	c.logger.Debug("claude CLI validated", zap.String("version", string(bytes.TrimSpace(out))))
	return nil
}

// cliResponse is the claude CLI --output-format json payload.
type cliResponse struct {
	Result     string `json:"result"`
	IsError    bool   `json:"is_error"`
	DurationMs int64  `json:"duration_ms"`
	SessionID  string `json:"session_id"`
}

func (c *ClaudeCLI) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	ctx, cancel := context.WithTimeout(ctx, claudeTimeout)
	defer cancel()

	p := req.Prompt
	if p == "" {
		p = defaultCLIPrompt
	}
	if req.CommitRange != "" {
		p += fmt.Sprintf("\n\nFocus on the commit range %s.", req.CommitRange)
	}

	args := []string{"-p", p, "--output-format", "json"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	cmd := exec.CommandContext(ctx, c.binPath, args...)
	cmd.Dir = req.RepoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ExecResult{}, fmt.Errorf("claude invocation failed: %w\nstderr: %s", err, stderr.String())
	}

	var resp cliResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return ExecResult{}, fmt.Errorf("parsing claude JSON output: %w\nraw output: %s", err, stdout.String())
	}
	if resp.IsError {
		return ExecResult{}, fmt.Errorf("claude returned error: %s", resp.Result)
	}

	return ExecResult{Raw: resp.Result, DurationMs: resp.DurationMs}, nil
}
