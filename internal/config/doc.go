// Package config loads the active LLM provider configuration.
//
// Configuration comes from a .loupe.yaml file (working directory or home)
// holding a list of provider entries, or from LOUPE_* environment variables,
// which take precedence. Exactly one active entry is selected per service
// instance; the absence of one is a fatal construction-time error.
//
// [ExportEnv] optionally mirrors credentials into the environment variable
// names that provider SDKs read implicitly.
package config
