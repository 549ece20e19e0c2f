package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loupe/internal/config"
	"loupe/internal/gitdiff"
	"loupe/internal/prompt"
	"loupe/internal/providers"
	"loupe/internal/redact"
	"loupe/internal/result"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const errPrefix = "code review failed"

// Request is one review invocation.
type Request struct {
	RepoPath     string
	CommitRange  string
	Subject      *prompt.Subject
	CustomPrompt string // takes absolute precedence over template assembly
}

// Outcome is the two-shape review contract: exactly one of Result or
// ErrorMessage is set. Review never returns an error and never panics past
// its boundary.
type Outcome struct {
	Result       *result.Review
	ErrorMessage string
}

// Failed reports whether the outcome is an error message.
func (o Outcome) Failed() bool { return o.Result == nil }

// Service dispatches review requests to the configured provider adapter.
// The configuration snapshot is loaded once at construction and never
// mutated; a Service is safe for concurrent Review calls.
type Service struct {
	cfg       config.ProviderConfig
	adapter   providers.Adapter
	extractor *gitdiff.Engine
	parser    result.Parser
	logger    *zap.Logger
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithParser replaces the default markdown result parser.
func WithParser(p result.Parser) Option { return func(s *Service) { s.parser = p } }

// WithAdapter injects a pre-built adapter, bypassing registry selection.
func WithAdapter(a providers.Adapter) Option { return func(s *Service) { s.adapter = a } }

// WithExtractor replaces the default diff extraction engine.
func WithExtractor(e *gitdiff.Engine) Option { return func(s *Service) { s.extractor = e } }

// New loads the active configuration from the store and builds the adapter
// for it. A missing or invalid configuration is fatal; there is no retry.
func New(store config.Store, opts ...Option) (*Service, error) {
	cfg, err := store.Active()
	if err != nil {
		return nil, fmt.Errorf("loading llm configuration: %w", err)
	}

	s := &Service{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = result.NewMarkdownParser()
	}
	if s.extractor == nil {
		s.extractor = gitdiff.New(s.logger)
	}
	if s.adapter == nil {
		adapter, err := providers.New(cfg, providers.Deps{
			Extractor: s.extractor,
			Logger:    s.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("selecting provider adapter: %w", err)
		}
		s.adapter = adapter
	}

	keyStatus := "configured"
	if cfg.APIKey == "" {
		keyStatus = "not configured"
	}
	s.logger.Info("llm configuration loaded",
		zap.String("provider", cfg.Name()),
		zap.String("model", cfg.Model),
		zap.String("api_key", keyStatus))
	if !cfg.IsMock() && cfg.APIKey == "" && providers.Hosted(cfg.Name()) {
		s.logger.Warn("configuration has no api key, requests will likely fail")
	}

	return s, nil
}

// Config returns the immutable configuration snapshot.
func (s *Service) Config() config.ProviderConfig { return s.cfg }

// Review runs one review through the configured provider. Every failure
// mode, including panics from collaborators, is converted into an
// ErrorMessage outcome at this boundary.
func (s *Service) Review(ctx context.Context, req Request) (out Outcome) {
	requestID := uuid.NewString()[:8]
	logger := s.logger.With(zap.String("request_id", requestID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("review panicked", zap.Any("panic", r))
			out = Outcome{ErrorMessage: fmt.Sprintf("%s: %v", errPrefix, r)}
		}
	}()

	start := time.Now()
	name := s.cfg.Name()
	logger.Info("starting code review",
		zap.String("provider", name),
		zap.String("repo", req.RepoPath),
		zap.String("range", req.CommitRange))

	if providers.RequiresRepo(name) && req.RepoPath == "" {
		return s.fail(logger, fmt.Sprintf("%s: no repository path provided, %s requires a local repository", errPrefix, name))
	}

	if err := s.adapter.Validate(ctx); err != nil {
		return s.fail(logger, fmt.Sprintf("%s: %v", errPrefix, err))
	}

	finalPrompt, errMsg := s.resolvePrompt(ctx, logger, req)
	if errMsg != "" {
		return s.fail(logger, errMsg)
	}

	res, err := s.adapter.Execute(ctx, providers.ExecRequest{
		RepoPath:    req.RepoPath,
		Prompt:      finalPrompt,
		CommitRange: req.CommitRange,
	})
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("adapter execution failed",
			zap.Duration("elapsed", elapsed), zap.Error(err))
		return Outcome{ErrorMessage: fmt.Sprintf("%s: %v", errPrefix, err)}
	}

	durationMs := res.DurationMs
	if durationMs == 0 {
		durationMs = elapsed.Milliseconds()
	}

	parsed, err := s.parser.Parse(res.Raw, durationMs)
	if err != nil {
		return s.fail(logger, fmt.Sprintf("%s: parsing result: %v", errPrefix, err))
	}

	logger.Info("code review complete",
		zap.Duration("elapsed", elapsed),
		zap.Int("score", parsed.Score),
		zap.Int("issues", len(parsed.Issues)))

	return Outcome{Result: parsed}
}

// resolvePrompt applies the prompt precedence: caller-supplied custom text,
// then the subject-derived template, then the provider's own default
// behavior (empty prompt, possible only for adapters that can operate
// prompt-less). For hosted providers without a custom prompt, the diff is
// extracted and embedded here; an empty diff is a dispatch failure.
func (s *Service) resolvePrompt(ctx context.Context, logger *zap.Logger, req Request) (string, string) {
	if req.CustomPrompt != "" {
		logger.Info("using caller-supplied custom prompt", zap.Int("length", len(req.CustomPrompt)))
		return req.CustomPrompt, ""
	}

	if !providers.Hosted(s.cfg.Name()) {
		if req.Subject != nil {
			logger.Info("using subject-derived prompt template")
			return prompt.Build(*req.Subject), ""
		}
		logger.Info("no prompt supplied, using provider default behavior")
		return "", ""
	}

	diff, err := s.extractor.Extract(ctx, req.RepoPath, req.CommitRange)
	if err != nil || strings.TrimSpace(diff) == "" {
		if err != nil {
			logger.Error("diff extraction failed", zap.Error(err))
		}
		return "", fmt.Sprintf("%s: no change content obtained", errPrefix)
	}
	diff = redact.Secrets(diff)

	if req.Subject != nil {
		logger.Info("using subject-derived prompt template with embedded diff")
		return prompt.BuildWithDiff(*req.Subject, diff), ""
	}
	logger.Info("no subject supplied, using default review instruction")
	return prompt.Default(diff), ""
}

func (s *Service) fail(logger *zap.Logger, msg string) Outcome {
	logger.Error(msg)
	return Outcome{ErrorMessage: msg}
}
