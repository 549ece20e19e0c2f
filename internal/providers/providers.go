package providers

import (
	"context"
	"fmt"

	"loupe/internal/config"
	"loupe/internal/gitdiff"

	"go.uber.org/zap"
)

// ExecRequest carries one review invocation.
type ExecRequest struct {
	RepoPath    string
	Prompt      string // fully assembled; empty means provider default behavior
	CommitRange string
}

// ExecResult is the raw outcome of a successful adapter call.
type ExecResult struct {
	Raw        string
	DurationMs int64 // provider-reported elapsed time; 0 when unknown
}

// Adapter is the uniform capability contract for every provider family.
type Adapter interface {
	Name() string
	Validate(ctx context.Context) error
	Execute(ctx context.Context, req ExecRequest) (ExecResult, error)
}

// Deps are the collaborators an adapter may need beyond its configuration.
type Deps struct {
	Extractor *gitdiff.Engine
	Logger    *zap.Logger
}

type constructor func(cfg config.ProviderConfig, deps Deps) (Adapter, error)

// registry is the closed dispatch table from canonical provider name to
// adapter constructor. Adding a provider means adding one entry here.
var registry = map[string]constructor{
	"claude":   newClaudeCLI,
	"ollama":   newOllama,
	"openai":   newOpenAI,
	"deepseek": newDeepSeek,
	"gemini":   newGemini,
	"mock":     newMock,
}

// localProviders require a local repository working copy.
var localProviders = map[string]bool{
	"claude": true,
	"ollama": true,
}

// New creates the adapter for the configured provider. Matching is
// case-insensitive via config.ProviderConfig.Name.
func New(cfg config.ProviderConfig, deps Deps) (Adapter, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	ctor, ok := registry[cfg.Name()]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	return ctor(cfg, deps)
}

// RequiresRepo reports whether the named provider needs a local repository
// path before dispatch.
func RequiresRepo(name string) bool {
	return localProviders[name]
}

// Hosted reports whether the named provider is a hosted API with no local
// repository access, i.e. its prompt must embed the diff.
func Hosted(name string) bool {
	_, known := registry[name]
	return known && !localProviders[name] && name != "mock"
}
