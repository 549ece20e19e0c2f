package config

import "os"

// Environment variable names recognized by third-party SDKs. Exporting them
// is a compatibility shim for clients that read credentials from the process
// environment instead of accepting them as parameters; loupe's own adapters
// always receive explicit values.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOpenAIBase   = "OPENAI_API_BASE"
	EnvDeepSeekKey  = "DEEPSEEK_API_KEY"
	EnvDeepSeekBase = "DEEPSEEK_API_BASE"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
	EnvOllamaBase   = "OLLAMA_API_BASE"
	EnvModel        = "LLM_MODEL"
)

// ExportEnv propagates the loaded configuration into the well-known
// environment variables for the configured provider family, plus the generic
// model variable. The mock provider exports nothing.
func ExportEnv(cfg ProviderConfig) {
	if cfg.IsMock() {
		return
	}

	set := func(key, val string) {
		if val != "" {
			os.Setenv(key, val)
		}
	}

	switch cfg.Name() {
	case "openai":
		set(EnvOpenAIKey, cfg.APIKey)
		set(EnvOpenAIBase, cfg.APIBase)
	case "deepseek":
		set(EnvDeepSeekKey, cfg.APIKey)
		set(EnvDeepSeekBase, cfg.APIBase)
	case "claude":
		set(EnvAnthropicKey, cfg.APIKey)
	case "gemini":
		set(EnvGoogleKey, cfg.APIKey)
	case "ollama":
		// Local model, no key required.
		set(EnvOllamaBase, cfg.APIBase)
	}

	set(EnvModel, cfg.Model)
}
